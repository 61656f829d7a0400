package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"kabadi-client/internal/clock"
	"kabadi-client/internal/domain"
	"kabadi-client/internal/logger"
	"kabadi-client/internal/repository"
	"kabadi-client/internal/utils"
)

type TransactionPhase string

const (
	PhaseCompose TransactionPhase = "compose"
	PhaseConfirm TransactionPhase = "confirm"
	PhaseDone    TransactionPhase = "done"
)

// CelebrationDuration is how long the success effect stays on
const CelebrationDuration = 3 * time.Second

// TransactionPicker is the in-progress line being composed
type TransactionPicker struct {
	Material   domain.MaterialType `json:"material,omitempty"`
	WeightKg   float64             `json:"weightKg,omitempty"`
	PricePerKg float64             `json:"pricePerKg,omitempty"`
}

// TransactionSummary aggregates the per-line results of one submission. After
// a partial failure it covers only the lines that were logged.
type TransactionSummary struct {
	Requested         int                        `json:"requested"`
	LoggedLineIDs     []string                   `json:"loggedLineIds"`
	Results           []domain.TransactionResult `json:"results"`
	TotalAmountPaid   float64                    `json:"totalAmountPaid"`
	TotalKCoinsEarned int                        `json:"totalKCoinsEarned"`
	NewKCoinBalance   int                        `json:"newKCoinBalance"`
	DailyCollectedKg  float64                    `json:"dailyCollectedKg"`
	ThresholdUnlocked bool                       `json:"thresholdUnlocked"`
}

// TransactionDraft is a copy of the workflow state for display
type TransactionDraft struct {
	Phase       TransactionPhase             `json:"phase"`
	Items       []domain.TransactionLineItem `json:"items"`
	Picker      TransactionPicker            `json:"picker"`
	EditingID   string                       `json:"editingId,omitempty"`
	TotalPaise  int64                        `json:"totalPaise"`
	Total       string                       `json:"total"`
	Summary     *TransactionSummary          `json:"summary,omitempty"`
	Celebrating bool                         `json:"celebrating"`
	Submitting  bool                         `json:"submitting"`
}

// TransactionWorkflow is the collector's purchase log: compose a list of
// material lines, review them, then log them all at once.
type TransactionWorkflow struct {
	repo     repository.TransactionRepository
	session  *Session
	clock    clock.Clock
	notifier Notifier
	newID    func() string

	mu          sync.Mutex
	phase       TransactionPhase
	items       []domain.TransactionLineItem
	picker      TransactionPicker
	editingID   string
	summary     *TransactionSummary
	celebrating bool
	celebration clock.Timer
	submitting  bool
}

func NewTransactionWorkflow(repo repository.TransactionRepository, session *Session, clk clock.Clock, notifier Notifier, newID func() string) *TransactionWorkflow {
	if clk == nil {
		clk = clock.New()
	}
	if notifier == nil {
		notifier = LogNotifier{}
	}
	if newID == nil {
		newID = NewItemID
	}
	return &TransactionWorkflow{
		repo:     repo,
		session:  session,
		clock:    clk,
		notifier: notifier,
		newID:    newID,
		phase:    PhaseCompose,
	}
}

// PickMaterial starts a new line for m with its default price prefilled
func (w *TransactionWorkflow) PickMaterial(m domain.MaterialType) (TransactionPicker, error) {
	if !m.Valid() {
		return TransactionPicker{}, domain.ErrUnknownMaterial
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.picker = TransactionPicker{Material: m, PricePerKg: m.DefaultPricePerKg()}
	return w.picker, nil
}

// AddOrUpdateItem appends a line, or replaces the line with editingID in
// place, and resets the picker. Invalid input changes nothing.
func (w *TransactionWorkflow) AddOrUpdateItem(p TransactionPicker, editingID string) (domain.TransactionLineItem, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseCompose {
		return domain.TransactionLineItem{}, ErrWrongPhase
	}
	idx := -1
	if editingID != "" {
		idx = slices.IndexFunc(w.items, func(it domain.TransactionLineItem) bool { return it.ID == editingID })
		if idx < 0 {
			return domain.TransactionLineItem{}, ErrItemNotFound
		}
	}

	item, err := domain.NewTransactionLineItem(editingID, p.Material, p.WeightKg, p.PricePerKg)
	if err != nil {
		return domain.TransactionLineItem{}, err
	}
	if idx < 0 {
		item.ID = w.newID()
	}
	if idx >= 0 {
		w.items[idx] = item
	} else {
		w.items = append(w.items, item)
	}
	w.editingID = ""
	w.picker = TransactionPicker{}
	return item, nil
}

// BeginEdit loads a line into the picker
func (w *TransactionWorkflow) BeginEdit(id string) (TransactionPicker, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseCompose {
		return TransactionPicker{}, ErrWrongPhase
	}
	idx := slices.IndexFunc(w.items, func(it domain.TransactionLineItem) bool { return it.ID == id })
	if idx < 0 {
		return TransactionPicker{}, ErrItemNotFound
	}
	it := w.items[idx]
	w.picker = TransactionPicker{Material: it.MaterialType, WeightKg: it.WeightKg, PricePerKg: it.PricePerKg}
	w.editingID = id
	return w.picker, nil
}

// CancelEdit leaves edit mode and clears the picker
func (w *TransactionWorkflow) CancelEdit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.editingID = ""
	w.picker = TransactionPicker{}
}

// RemoveItem drops a line; removing the line under edit also clears the picker
func (w *TransactionWorkflow) RemoveItem(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseCompose {
		return ErrWrongPhase
	}
	idx := slices.IndexFunc(w.items, func(it domain.TransactionLineItem) bool { return it.ID == id })
	if idx < 0 {
		return ErrItemNotFound
	}
	w.items = slices.Delete(w.items, idx, idx+1)
	if w.editingID == id {
		w.editingID = ""
		w.picker = TransactionPicker{}
	}
	return nil
}

// Confirm moves to the read-only review of the list
func (w *TransactionWorkflow) Confirm() (utils.TransactionBreakdown, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseCompose {
		return utils.TransactionBreakdown{}, ErrWrongPhase
	}
	if len(w.items) == 0 {
		return utils.TransactionBreakdown{}, ErrEmptyCart
	}
	w.phase = PhaseConfirm
	return utils.CalculateBreakdown(w.items), nil
}

// Back returns from review to compose with the list intact
func (w *TransactionWorkflow) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseConfirm || w.submitting {
		return ErrWrongPhase
	}
	w.phase = PhaseCompose
	return nil
}

// Submit logs every line concurrently and waits for all of them. On any
// failure the workflow stays in review with the list intact, and the
// returned summary tells which lines the backend did log.
func (w *TransactionWorkflow) Submit(ctx context.Context, citizenID *int64) (*TransactionSummary, error) {
	user, err := w.session.Require(domain.UserTypeKabadi)
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	if w.phase != PhaseConfirm {
		w.mu.Unlock()
		return nil, ErrWrongPhase
	}
	if w.submitting {
		w.mu.Unlock()
		return nil, ErrSubmitInProgress
	}
	w.submitting = true
	items := slices.Clone(w.items)
	w.mu.Unlock()

	logger.EnterMethod("TransactionWorkflow.Submit", "kabadiId", user.UserID, "lines", len(items))

	results := make([]*domain.TransactionResult, len(items))
	var g errgroup.Group
	for i, it := range items {
		g.Go(func() error {
			res, err := w.repo.Log(ctx, &domain.TransactionRequest{
				UserID:       citizenID,
				KabadiWalaID: user.UserID,
				MaterialType: it.MaterialType,
				WeightKg:     it.WeightKg,
				PricePerKg:   it.PricePerKg,
			})
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	err = g.Wait()

	var logged []domain.TransactionResult
	var loggedIDs []string
	for i, res := range results {
		if res != nil {
			logged = append(logged, *res)
			loggedIDs = append(loggedIDs, items[i].ID)
		}
	}
	summary := summarize(logged)
	summary.Requested = len(items)
	summary.LoggedLineIDs = loggedIDs

	w.mu.Lock()
	w.submitting = false
	if err != nil {
		w.mu.Unlock()
		w.notifier.Notify(NotifyError, UserMessage(err))
		logger.ExitMethodWithError("TransactionWorkflow.Submit", err, "logged", len(logged))
		return summary, fmt.Errorf("failed to log transactions, logged %d of %d: %w", len(logged), len(items), err)
	}

	w.summary = summary
	w.phase = PhaseDone
	w.celebrating = true
	if w.celebration != nil {
		w.celebration.Stop()
	}
	w.celebration = w.clock.AfterFunc(CelebrationDuration, w.endCelebration)
	w.mu.Unlock()

	w.notifier.Notify(NotifySuccess, "All transactions logged!")
	logger.ExitMethod("TransactionWorkflow.Submit", "amountPaid", summary.TotalAmountPaid, "kCoinsEarned", summary.TotalKCoinsEarned)
	return summary, nil
}

// Reset clears everything and starts a new list
func (w *TransactionWorkflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.celebration != nil {
		w.celebration.Stop()
		w.celebration = nil
	}
	w.phase = PhaseCompose
	w.items = nil
	w.picker = TransactionPicker{}
	w.editingID = ""
	w.summary = nil
	w.celebrating = false
}

func (w *TransactionWorkflow) Draft() TransactionDraft {
	w.mu.Lock()
	defer w.mu.Unlock()

	total := utils.CalculateGrandTotal(w.items)
	d := TransactionDraft{
		Phase:       w.phase,
		Items:       slices.Clone(w.items),
		Picker:      w.picker,
		EditingID:   w.editingID,
		TotalPaise:  total,
		Total:       utils.FormatRupees(total),
		Summary:     w.summary,
		Celebrating: w.celebrating,
		Submitting:  w.submitting,
	}
	if d.Items == nil {
		d.Items = []domain.TransactionLineItem{}
	}
	return d
}

func (w *TransactionWorkflow) Phase() TransactionPhase {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase
}

func (w *TransactionWorkflow) Celebrating() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.celebrating
}

func (w *TransactionWorkflow) endCelebration() {
	w.mu.Lock()
	w.celebrating = false
	w.celebration = nil
	w.mu.Unlock()
}

func summarize(results []domain.TransactionResult) *TransactionSummary {
	s := &TransactionSummary{Results: results}
	var paise int64
	for _, r := range results {
		paise += utils.ToPaise(r.AmountPaid)
		s.TotalKCoinsEarned += r.KCoinsEarned
		// Lines were processed in some order; the largest figures are the latest
		s.NewKCoinBalance = max(s.NewKCoinBalance, r.NewKCoinBalance)
		s.DailyCollectedKg = max(s.DailyCollectedKg, r.DailyCollectedKg)
		s.ThresholdUnlocked = s.ThresholdUnlocked || r.ThresholdUnlocked
	}
	s.TotalAmountPaid = utils.FromPaise(paise)
	return s
}
