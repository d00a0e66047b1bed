package deal

import (
	"time"

	"github.com/nestapp/backend/internal/domain/shared"
)

const (
	blockedCancelled = "This deal has been cancelled."
	blockedMoveIn    = "Move-in date must be set before generating the Move-in Confirmation."
)

// StepStatus is the display status of a step in the journey view
type StepStatus string

const (
	StepCompleted StepStatus = "completed"
	StepCurrent   StepStatus = "current"
	StepUpcoming  StepStatus = "upcoming"
)

// StepState is the evaluated completion of one journey step
type StepState struct {
	Step              JourneyStep
	Completed         bool
	ManuallySatisfied bool
}

// Resolution is the derived position of a deal in its journey
type Resolution struct {
	Steps         []StepState
	CurrentIndex  int
	Done          bool
	BlockedReason string
}

// Current returns the step the deal is waiting on. For a completed deal this
// is DEAL_CLOSED.
func (r Resolution) Current() JourneyStep {
	return r.Steps[r.CurrentIndex].Step
}

// IsBlocked reports whether the current step waits on an external precondition
func (r Resolution) IsBlocked() bool {
	return r.BlockedReason != ""
}

// StatusAt returns the display status of the i-th step
func (r Resolution) StatusAt(i int) StepStatus {
	switch {
	case r.Steps[i].Completed:
		return StepCompleted
	case i == r.CurrentIndex:
		return StepCurrent
	default:
		return StepUpcoming
	}
}

// PreviousComplete reports whether the step before the current one is complete
func (r Resolution) PreviousComplete() bool {
	if r.CurrentIndex == 0 {
		return true
	}
	return r.Steps[r.CurrentIndex-1].Completed
}

// ResolverInput is the persisted state the resolver reads
type ResolverInput struct {
	Deal        *Deal
	Documents   []Document
	Attachments []FinanceAttachment
}

// StepResolver derives a deal's current step from persisted state. It has no
// side effects and returns the same Resolution for the same input.
type StepResolver struct {
	registry *JourneyRegistry
}

// NewStepResolver creates a resolver over the given registry
func NewStepResolver(registry *JourneyRegistry) *StepResolver {
	return &StepResolver{registry: registry}
}

// Registry returns the journey registry the resolver walks
func (r *StepResolver) Registry() *JourneyRegistry {
	return r.registry
}

// Resolve walks the deal's journey and returns the first incomplete step.
// A DATA_INTEGRITY error is returned when the persisted history could not
// have been produced by any valid sequence of operations.
func (r *StepResolver) Resolve(in ResolverInput) (Resolution, error) {
	d := in.Deal
	steps := r.registry.StepsFor(d.TermType)
	if len(steps) == 0 {
		return Resolution{}, shared.NewDataIntegrityError("deal %s has unknown term type %q", d.DealCode, d.TermType)
	}

	pointer := -1
	if d.OverrideStep != "" {
		pointer = r.registry.IndexOf(d.TermType, d.OverrideStep)
		if pointer < 0 || d.OverrideAt == nil {
			return Resolution{}, shared.NewDataIntegrityError("deal %s has invalid override pointer %q", d.DealCode, d.OverrideStep)
		}
	}

	docs := make(map[DocumentType]*Document, len(in.Documents))
	for i := range in.Documents {
		doc := &in.Documents[i]
		if err := doc.checkIntegrity(); err != nil {
			return Resolution{}, err
		}
		docs[doc.DocType] = doc
	}

	res := Resolution{Steps: make([]StepState, len(steps)), CurrentIndex: -1}
	for i, step := range steps {
		state := StepState{Step: step}
		if i < pointer {
			state.Completed = true
			state.ManuallySatisfied = true
		} else {
			var since *time.Time
			if i == pointer {
				since = d.OverrideAt
			}
			state.Completed = isStepComplete(step, d, docs, in.Attachments, since)
		}
		res.Steps[i] = state
		if !state.Completed && res.CurrentIndex < 0 {
			res.CurrentIndex = i
		}
	}

	if res.CurrentIndex < 0 {
		res.CurrentIndex = len(steps) - 1
		res.Done = true
	}

	if d.Status == StatusCompleted && !res.Done {
		return Resolution{}, shared.NewDataIntegrityError("deal %s is COMPLETED but step %s is incomplete", d.DealCode, res.Current().ID)
	}

	if d.InvoiceRequestedAt == nil && !requestManuallySatisfied(res) && InvoiceOnRecord(d, in.Attachments) {
		return Resolution{}, shared.NewDataIntegrityError("deal %s is %s with an invoice on record but was never asked for one", d.DealCode, d.Status)
	}

	current := res.Current()

	switch {
	case d.Status == StatusCancelled:
		res.BlockedReason = blockedCancelled
	case res.Done:
	case current.ID == StepGenerateMoveIn && d.MoveInDate == nil:
		res.BlockedReason = blockedMoveIn
	}
	return res, nil
}

// InvoiceOnRecord reports whether the deal's status or attachments show that
// the invoice steps were acted on.
func InvoiceOnRecord(d *Deal, attachments []FinanceAttachment) bool {
	if d.Status == StatusInvoiceRequested || d.Status == StatusInvoiceUploaded {
		return true
	}
	for _, a := range attachments {
		if a.Type == AttachmentInvoice {
			return true
		}
	}
	return false
}

func requestManuallySatisfied(res Resolution) bool {
	for _, s := range res.Steps {
		if s.Step.Action == ActionInvoiceRequest {
			return s.ManuallySatisfied
		}
	}
	return false
}

// isStepComplete evaluates a step's completion predicate. When since is set
// only completions recorded at or after it count.
func isStepComplete(step JourneyStep, d *Deal, docs map[DocumentType]*Document, attachments []FinanceAttachment, since *time.Time) bool {
	switch step.Action {
	case ActionSelect:
		return true
	case ActionGenerate:
		doc, ok := docs[step.DocType]
		if !ok || doc.LatestVersion < 1 {
			return false
		}
		return since == nil || doc.GeneratedSince(*since)
	case ActionInvoiceRequest:
		if d.InvoiceRequestedAt == nil {
			return false
		}
		return since == nil || !d.InvoiceRequestedAt.Before(*since)
	case ActionInvoiceUpload:
		for _, a := range attachments {
			if a.Type != AttachmentInvoice {
				continue
			}
			if d.InvoiceRequestedAt != nil && a.UploadedAt.Before(*d.InvoiceRequestedAt) {
				continue
			}
			if since != nil && a.UploadedAt.Before(*since) {
				continue
			}
			return true
		}
		return false
	case ActionClose:
		return d.Status == StatusCompleted
	}
	return false
}
