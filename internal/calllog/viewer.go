package calllog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/set-night/calldesk/internal/config"
	"github.com/set-night/calldesk/internal/domain"
	"github.com/set-night/calldesk/internal/service"
)

// Source is the backend surface the viewer reads from and deletes through.
type Source interface {
	ListPhones(ctx context.Context) ([]string, error)
	ListTurns(ctx context.Context, q service.TurnQuery) (*domain.TurnPage, error)
	DeleteTurn(ctx context.Context, phone, ts string) error
	DeleteSession(ctx context.Context, callSID string) (int, error)
	ListRecordings(ctx context.Context, callSID string) ([]domain.RecordingRef, error)
	FetchLogs(ctx context.Context, q service.LogQuery) ([]domain.LogEvent, error)
}

type Options struct {
	PageSize        int
	PhonePageSize   int
	Limit           int
	RankConcurrency int
	Now             func() time.Time
}

func (o *Options) defaults() {
	if o.PageSize < 1 {
		o.PageSize = config.SessionsPerPage
	}
	if o.PhonePageSize < 1 {
		o.PhonePageSize = config.PhonesPerPage
	}
	o.Limit = config.ClampLimit(o.Limit)
	if o.RankConcurrency < 1 {
		o.RankConcurrency = 1
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Viewer holds the call-log state of one console screen. The turn sequence
// is canonical; sessions and pages are derived from it on every read.
type Viewer struct {
	src  Source
	opts Options

	mu        sync.Mutex
	phones    []domain.PhoneEntry
	filter    string
	phonePage int
	selected  string
	from, to  time.Time
	limit     int
	turns     []domain.Turn
	nextToken string
	page      int
	loading   bool
	err       string

	// gen changes whenever the phone, range or limit does. A load that
	// finishes under another generation is discarded.
	gen uint64

	recordings *Cache[[]domain.RecordingRef]
	logs       *Cache[sessionLogs]
}

type sessionLogs struct {
	events []domain.LogEvent
	window LogWindow
}

func NewViewer(src Source, opts Options) *Viewer {
	opts.defaults()
	return &Viewer{
		src:        src,
		opts:       opts,
		phonePage:  1,
		page:       1,
		limit:      opts.Limit,
		recordings: NewCache[[]domain.RecordingRef](),
		logs:       NewCache[sessionLogs](),
	}
}

// View is a snapshot of the session list.
type View struct {
	Phone        string
	From, To     time.Time
	Limit        int
	Sessions     []domain.Session
	Pager        Pager
	SessionCount int
	TurnCount    int
	HasMore      bool
	Loading      bool
	Error        string
}

// PhoneList is a snapshot of the filtered phone selector.
type PhoneList struct {
	Entries  []domain.PhoneEntry
	Pager    Pager
	Total    int
	Filter   string
	Selected string
}

func (v *Viewer) begin() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loading {
		return domain.ErrBusy
	}
	v.loading = true
	v.err = ""
	return nil
}

func (v *Viewer) end() {
	v.mu.Lock()
	v.loading = false
	v.mu.Unlock()
}

func (v *Viewer) fail(err error) error {
	v.mu.Lock()
	v.err = service.ErrorMessage(err)
	v.mu.Unlock()
	return err
}

// LoadPhones reloads and ranks the phone list. When no phone is selected yet
// the most recent one is selected.
func (v *Viewer) LoadPhones(ctx context.Context) error {
	if err := v.begin(); err != nil {
		return err
	}
	defer v.end()

	phones, err := v.src.ListPhones(ctx)
	if err != nil {
		return v.fail(err)
	}
	ranked := RankPhones(ctx, v.src, phones, v.opts.RankConcurrency)

	v.mu.Lock()
	defer v.mu.Unlock()
	v.phones = ranked
	v.phonePage = 1
	if v.selected == "" && len(ranked) > 0 {
		v.selectLocked(ranked[0].Phone)
	}
	return nil
}

// SelectPhone switches the phone and drops the turns of the previous one.
func (v *Viewer) SelectPhone(phone string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectLocked(phone)
}

func (v *Viewer) selectLocked(phone string) {
	v.selected = phone
	v.turns = nil
	v.nextToken = ""
	v.page = 1
	v.gen++
}

func (v *Viewer) SelectedPhone() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.selected
}

// SetRange sets the time filter; zero times leave a bound open. Turns of
// the previous range are dropped along with their continuation token.
func (v *Viewer) SetRange(from, to time.Time) error {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return fmt.Errorf("range end %s is before start %s", to.Format(time.RFC3339), from.Format(time.RFC3339))
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.from, v.to = from, to
	v.turns = nil
	v.nextToken = ""
	v.page = 1
	v.gen++
	return nil
}

func (v *Viewer) ApplyQuickRange(r QuickRange) {
	from, to := r.Bounds(v.opts.Now())
	_ = v.SetRange(from, to)
}

// SetPhoneFilter narrows the phone list and resets both paginations.
func (v *Viewer) SetPhoneFilter(filter string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = filter
	v.phonePage = 1
	v.page = 1
}

// SetLimit stores the clamped fetch limit and returns it.
func (v *Viewer) SetLimit(n int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.limit = config.ClampLimit(n)
	v.nextToken = ""
	v.gen++
	return v.limit
}

func (v *Viewer) queryLocked(token string) service.TurnQuery {
	return service.TurnQuery{
		Phone:     v.selected,
		From:      FormatRangeBound(v.from),
		To:        FormatRangeBound(v.to),
		Limit:     v.limit,
		NextToken: token,
	}
}

// LoadCalls is a fresh load: held turns and the continuation token are
// cleared before the request goes out.
func (v *Viewer) LoadCalls(ctx context.Context) error {
	if err := v.begin(); err != nil {
		return err
	}
	defer v.end()

	v.mu.Lock()
	if v.selected == "" {
		v.err = domain.ErrNoPhoneSelected.Error()
		v.mu.Unlock()
		return domain.ErrNoPhoneSelected
	}
	v.turns = nil
	v.nextToken = ""
	v.page = 1
	q := v.queryLocked("")
	gen := v.gen
	v.mu.Unlock()

	page, err := v.src.ListTurns(ctx, q)
	if err != nil {
		return v.fail(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen {
		return nil
	}
	v.turns = page.Turns
	v.nextToken = page.NextToken
	return nil
}

// LoadMore follows the continuation token and appends the next page.
func (v *Viewer) LoadMore(ctx context.Context) error {
	if err := v.begin(); err != nil {
		return err
	}
	defer v.end()

	v.mu.Lock()
	if v.nextToken == "" {
		v.mu.Unlock()
		return domain.ErrNoMorePages
	}
	q := v.queryLocked(v.nextToken)
	gen := v.gen
	v.mu.Unlock()

	page, err := v.src.ListTurns(ctx, q)
	if err != nil {
		return v.fail(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.gen != gen || v.nextToken != q.NextToken {
		return nil
	}
	v.turns = append(v.turns, page.Turns...)
	v.nextToken = page.NextToken
	return nil
}

func (v *Viewer) SetPage(p int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := len(Group(v.turns, v.selected).Sessions)
	v.page = NewPager(n, p, v.opts.PageSize).Page
}

func (v *Viewer) NextPage() { v.SetPage(v.currentPage() + 1) }

func (v *Viewer) PrevPage() { v.SetPage(v.currentPage() - 1) }

func (v *Viewer) currentPage() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

func (v *Viewer) SetPhonePage(p int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := len(FilterPhones(v.phones, v.filter))
	v.phonePage = NewPager(n, p, v.opts.PhonePageSize).Page
}

// View derives the current page of sessions from the held turns.
func (v *Viewer) View() View {
	v.mu.Lock()
	defer v.mu.Unlock()

	sessions := Group(v.turns, v.selected).Sessions
	pager := NewPager(len(sessions), v.page, v.opts.PageSize)
	return View{
		Phone:        v.selected,
		From:         v.from,
		To:           v.to,
		Limit:        v.limit,
		Sessions:     Paginate(sessions, pager.Page, v.opts.PageSize),
		Pager:        pager,
		SessionCount: len(sessions),
		TurnCount:    len(v.turns),
		HasMore:      v.nextToken != "",
		Loading:      v.loading,
		Error:        v.err,
	}
}

func (v *Viewer) PhoneList() PhoneList {
	v.mu.Lock()
	defer v.mu.Unlock()

	filtered := FilterPhones(v.phones, v.filter)
	pager := NewPager(len(filtered), v.phonePage, v.opts.PhonePageSize)
	return PhoneList{
		Entries:  Paginate(filtered, pager.Page, v.opts.PhonePageSize),
		Pager:    pager,
		Total:    len(filtered),
		Filter:   v.filter,
		Selected: v.selected,
	}
}

// Session returns a session summary and its turns, oldest first.
func (v *Viewer) Session(key string) (domain.Session, []domain.Turn, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	g := Group(v.turns, v.selected)
	s, ok := g.Find(key)
	if !ok {
		return domain.Session{}, nil, domain.ErrSessionNotFound
	}
	return s, g.Members[key], nil
}

// Logs returns the event log around a session. Successful results are cached
// by session key together with the window they were fetched for.
func (v *Viewer) Logs(ctx context.Context, key string) ([]domain.LogEvent, LogWindow, error) {
	_, members, err := v.Session(key)
	if err != nil {
		return nil, LogWindow{}, err
	}
	if cached, ok := v.logs.Get(key); ok {
		return cached.events, cached.window, nil
	}
	w := LogWindowFor(members, v.opts.Now())

	events, err := v.src.FetchLogs(ctx, service.LogQuery{
		StartMs: w.StartMs,
		Minutes: w.Minutes,
		Limit:   config.LogFetchLimit,
	})
	if err != nil {
		return nil, w, v.fail(err)
	}
	v.logs.Set(key, sessionLogs{events: events, window: w})
	return events, w, nil
}

// Recordings returns the recordings of a call, cached per call id.
func (v *Viewer) Recordings(ctx context.Context, callSID string) ([]domain.RecordingRef, error) {
	if callSID == "" {
		return nil, domain.ErrSessionHasNoCall
	}
	if refs, ok := v.recordings.Get(callSID); ok {
		return refs, nil
	}
	refs, err := v.src.ListRecordings(ctx, callSID)
	if err != nil {
		return nil, v.fail(err)
	}
	v.recordings.Set(callSID, refs)
	return refs, nil
}

// DeleteTurn deletes one turn on the server and then drops it locally.
func (v *Viewer) DeleteTurn(ctx context.Context, phone, ts string) error {
	if err := v.src.DeleteTurn(ctx, phone, ts); err != nil {
		return v.fail(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.turns = slices.DeleteFunc(v.turns, func(t domain.Turn) bool {
		return t.Timestamp == ts && v.phoneOf(t) == phone
	})
	v.clampPageLocked()
	return nil
}

// DeleteSession deletes every turn of a call and returns the server's count.
func (v *Viewer) DeleteSession(ctx context.Context, callSID string) (int, error) {
	if callSID == "" {
		return 0, domain.ErrSessionHasNoCall
	}
	deleted, err := v.src.DeleteSession(ctx, callSID)
	if err != nil {
		return 0, v.fail(err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.turns = slices.DeleteFunc(v.turns, func(t domain.Turn) bool {
		return t.CallID == callSID
	})
	v.clampPageLocked()
	return deleted, nil
}

func (v *Viewer) phoneOf(t domain.Turn) string {
	if t.PhoneNumber != "" {
		return t.PhoneNumber
	}
	return v.selected
}

func (v *Viewer) clampPageLocked() {
	n := len(Group(v.turns, v.selected).Sessions)
	v.page = NewPager(n, v.page, v.opts.PageSize).Page
}

// Reset returns the viewer to its initial state and drops the caches.
func (v *Viewer) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.phones = nil
	v.filter = ""
	v.phonePage = 1
	v.selected = ""
	v.from, v.to = time.Time{}, time.Time{}
	v.limit = v.opts.Limit
	v.turns = nil
	v.nextToken = ""
	v.page = 1
	v.err = ""
	v.gen++
	v.recordings.Reset()
	v.logs.Reset()
}
