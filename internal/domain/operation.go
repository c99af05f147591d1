package domain

import "fmt"

// OperationKind names a multi-step git operation that is in progress.
type OperationKind string

const (
	OperationNone              OperationKind = ""
	OperationMerging           OperationKind = "MERGING"
	OperationRebaseInteractive OperationKind = "REBASE-i"
	OperationRebaseMerge       OperationKind = "REBASE-m"
	OperationRebase            OperationKind = "REBASE"
	OperationApplyMailbox      OperationKind = "AM/REBASE"
	OperationCherryPicking     OperationKind = "CHERRY-PICKING"
	OperationReverting         OperationKind = "REVERTING"
	OperationBisecting         OperationKind = "BISECTING"
)

// HeadOperation describes the in-progress operation, if any. Step and
// Total are only known for rebases and are zero otherwise.
type HeadOperation struct {
	Kind  OperationKind
	Step  int
	Total int
}

// Active reports whether any operation is in progress.
func (o HeadOperation) Active() bool {
	return o.Kind != OperationNone
}

// Details returns "step/total" when both are known.
func (o HeadOperation) Details() string {
	if o.Step > 0 && o.Total > 0 {
		return fmt.Sprintf("%d/%d", o.Step, o.Total)
	}
	return ""
}

// String renders the operation as "KIND" or "KIND step/total".
func (o HeadOperation) String() string {
	if !o.Active() {
		return ""
	}
	if d := o.Details(); d != "" {
		return string(o.Kind) + " " + d
	}
	return string(o.Kind)
}
