package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Profile is the engine's view of a registered user.
type Profile struct {
	ID           int64
	Gender       Gender
	Age          int
	Country      string
	PremiumUntil *time.Time
}

// Complete reports whether the profile can enter the waiting queue.
func (p Profile) Complete() bool {
	return p.Gender != GenderUnset
}

// PremiumActive reports whether the user holds premium at the given instant.
func (p Profile) PremiumActive(now time.Time) bool {
	return p.PremiumUntil != nil && p.PremiumUntil.After(now)
}

// OutgoingKind selects how the transport renders an outbound delivery.
type OutgoingKind string

const (
	OutText           OutgoingKind = "text"
	OutMedia          OutgoingKind = "media"
	OutConsentPrompt  OutgoingKind = "consent_prompt"
	OutFeedbackPrompt OutgoingKind = "feedback_prompt"
)

// Outgoing is one delivery instruction for the transport. Consent prompts
// carry the transfer token and the kind on offer; feedback prompts carry the
// former partner so the recipient can report or thank them.
type Outgoing struct {
	Kind      OutgoingKind
	Text      string
	Media     *MediaItem
	Token     string
	MediaKind MediaKind
	PeerID    int64
}

// Transport delivers content to a user. A returned error means the user is
// unreachable (blocked the bot, deleted the account); the engine treats it
// as an implicit disconnect, never as a fatal condition.
type Transport interface {
	Deliver(userID int64, out Outgoing) error
}

// ProfileStore is the persistent profile collaborator.
type ProfileStore interface {
	GetOrCreate(userID int64) (Profile, error)
	IncrMessages(userID int64) error
	IncrMediaApproved(userID int64) error
	IncrMediaRejected(userID int64) error
}

// ReportLedger records community reports and supports and returns the
// aggregate totals against the target after each mutation.
type ReportLedger interface {
	AddReport(reporter, reported int64, category, reason string) (reports, supports int64, err error)
	AddSupport(supporter, supported int64) (reports, supports int64, err error)
}

// BanArchive persists ban status changes and restores the active set at
// startup. Archive failures are logged, never propagated: the in-memory
// registry stays authoritative.
type BanArchive interface {
	RecordBan(userID int64, rec BanRecord) error
	RecordUnban(userID int64, liftedBy string) error
	LoadActive() (map[int64]BanRecord, error)
}

// Policy bundles the moderation thresholds.
type Policy struct {
	OwnerID         int64
	WarningLimit    int
	TempBanDuration time.Duration
	ReportThreshold int64
	SupportOverride int64
}

func DefaultPolicy() Policy {
	return Policy{
		WarningLimit:    3,
		TempBanDuration: 24 * time.Hour,
		ReportThreshold: 5,
		SupportOverride: 10,
	}
}

// StopOutcome tells the caller what /stop actually ended.
type StopOutcome int

const (
	StoppedNothing StopOutcome = iota
	StoppedSearch
	StoppedChat
)

// Stats is a point-in-time snapshot of the engine state.
type Stats struct {
	WaitingRandom    int   `json:"waiting_random"`
	WaitingSeeking   int   `json:"waiting_seeking"`
	ActivePairs      int   `json:"active_pairs"`
	ActiveBans       int   `json:"active_bans"`
	PendingTransfers int   `json:"pending_transfers"`
	SweepRuns        int64 `json:"sweep_runs"`
}

type delivery struct {
	userID int64
	out    Outgoing
}

// Engine is the single authority over the waiting queues, the pairing table,
// the ban registry and the ledgers. Every mutating operation is serialized
// behind one mutex; outbound deliveries are buffered while the lock is held
// and flushed after release so a slow transport never blocks state changes.
type Engine struct {
	policy Policy

	mu       sync.Mutex
	queue    *QueueSet
	pairs    *PairTable
	bans     *BanRegistry
	warnings *WarningLedger
	consent  *ConsentCoordinator
	filter   *Filter

	profiles  ProfileStore
	ledger    ReportLedger
	archive   BanArchive
	transport Transport

	lastPartner map[int64]int64
	outbox      []delivery
	sweepRuns   int64

	now func() time.Time
	log *slog.Logger
}

func NewEngine(policy Policy, filter *Filter, profiles ProfileStore, ledger ReportLedger, archive BanArchive, transport Transport) *Engine {
	if policy.WarningLimit <= 0 {
		policy.WarningLimit = DefaultPolicy().WarningLimit
	}
	if policy.TempBanDuration <= 0 {
		policy.TempBanDuration = DefaultPolicy().TempBanDuration
	}
	return &Engine{
		policy:      policy,
		queue:       NewQueueSet(),
		pairs:       NewPairTable(),
		bans:        NewBanRegistry(policy.OwnerID),
		warnings:    NewWarningLedger(policy.WarningLimit),
		consent:     NewConsentCoordinator(),
		filter:      filter,
		profiles:    profiles,
		ledger:      ledger,
		archive:     archive,
		transport:   transport,
		lastPartner: make(map[int64]int64),
		now:         time.Now,
		log:         slog.With("component", "engine"),
	}
}

// SetTransport installs the delivery backend. The engine and the transport
// reference each other, so one of them has to be wired after construction.
// Call before serving events.
func (e *Engine) SetTransport(t Transport) {
	e.mu.Lock()
	e.transport = t
	e.mu.Unlock()
}

// LoadBans restores still-active bans from the archive. Call once before
// serving events.
func (e *Engine) LoadBans() error {
	records, err := e.archive.LoadActive()
	if err != nil {
		return fmt.Errorf("load active bans: %w", err)
	}
	e.mu.Lock()
	e.bans.Load(records)
	e.mu.Unlock()
	e.log.Info("ban registry restored", "count", len(records))
	return nil
}

// run serializes fn behind the engine mutex and flushes the deliveries fn
// buffered once the lock is released.
func (e *Engine) run(fn func() error) error {
	e.mu.Lock()
	err := fn()
	out := e.outbox
	e.outbox = nil
	e.mu.Unlock()
	e.flush(out)
	return err
}

func (e *Engine) deliver(userID int64, out Outgoing) {
	e.outbox = append(e.outbox, delivery{userID: userID, out: out})
}

func (e *Engine) flush(out []delivery) {
	for _, d := range out {
		if err := e.transport.Deliver(d.userID, d.out); err != nil {
			e.log.Warn("delivery failed, treating as disconnect", "user_id", d.userID, "error", err)
			e.Disconnect(d.userID)
		}
	}
}

// Search puts the user into a waiting queue and runs the matchmaker. A want
// other than GenderUnset selects the attribute-seeking queue, which is a
// premium feature (the owner is exempt).
func (e *Engine) Search(userID int64, want Gender) error {
	return e.run(func() error {
		return e.search(userID, want)
	})
}

func (e *Engine) search(userID int64, want Gender) error {
	if e.bans.IsBanned(userID) {
		return ErrBanned
	}
	profile, err := e.profiles.GetOrCreate(userID)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if !profile.Complete() {
		return ErrProfileIncomplete
	}
	if _, paired := e.pairs.PartnerOf(userID); paired {
		return ErrAlreadyPaired
	}
	if want != GenderUnset && userID != e.policy.OwnerID && !profile.PremiumActive(e.now()) {
		return ErrPremiumRequired
	}
	if err := e.queue.Enqueue(Entry{
		UserID:     userID,
		Gender:     profile.Gender,
		Want:       want,
		EnqueuedAt: e.now(),
	}); err != nil {
		return err
	}
	e.runMatch()
	return nil
}

func (e *Engine) runMatch() {
	for _, m := range e.queue.RunMatch() {
		if err := e.pairs.Pair(m.A.UserID, m.B.UserID); err != nil {
			// Queue exclusivity is enforced on every entry point, so this
			// indicates a programming error. Log and skip rather than crash.
			e.log.Error("matchmaker produced an invalid pair", "a", m.A.UserID, "b", m.B.UserID, "error", err)
			continue
		}
		e.lastPartner[m.A.UserID] = m.B.UserID
		e.lastPartner[m.B.UserID] = m.A.UserID
		e.notifyMatched(m.A.UserID, m.B.UserID)
		e.notifyMatched(m.B.UserID, m.A.UserID)
	}
}

func (e *Engine) notifyMatched(to, partnerID int64) {
	partner, err := e.profiles.GetOrCreate(partnerID)
	if err != nil {
		e.log.Error("partner summary lookup failed", "user_id", partnerID, "error", err)
		partner = Profile{ID: partnerID}
	}
	e.deliver(to, Outgoing{Kind: OutText, Text: matchedMessage(partner)})
}

// Stop leaves the waiting queue or ends the active conversation, whichever
// the user is in.
func (e *Engine) Stop(userID int64) (StopOutcome, error) {
	outcome := StoppedNothing
	err := e.run(func() error {
		if e.bans.IsBanned(userID) {
			return ErrBanned
		}
		if e.queue.Remove(userID) {
			outcome = StoppedSearch
			return nil
		}
		if partner, ok := e.endChat(userID); ok {
			outcome = StoppedChat
			e.deliver(partner, Outgoing{Kind: OutText, Text: msgPartnerLeft})
			e.deliver(partner, Outgoing{Kind: OutFeedbackPrompt, PeerID: userID})
			e.deliver(userID, Outgoing{Kind: OutFeedbackPrompt, PeerID: partner})
		}
		return nil
	})
	return outcome, err
}

// Next ends the current conversation, if any, and immediately re-enters the
// random queue.
func (e *Engine) Next(userID int64) error {
	return e.run(func() error {
		if e.bans.IsBanned(userID) {
			return ErrBanned
		}
		if partner, ok := e.endChat(userID); ok {
			e.deliver(partner, Outgoing{Kind: OutText, Text: msgPartnerLeft})
			e.deliver(partner, Outgoing{Kind: OutFeedbackPrompt, PeerID: userID})
			e.deliver(userID, Outgoing{Kind: OutFeedbackPrompt, PeerID: partner})
		}
		return e.search(userID, GenderUnset)
	})
}

// endChat tears down the user's pair and abandons every pending media
// transfer of the conversation. Returns the former partner.
func (e *Engine) endChat(userID int64) (int64, bool) {
	partner, ok := e.pairs.Unpair(userID)
	if !ok {
		return 0, false
	}
	e.consent.Abandon(userID)
	e.consent.Abandon(partner)
	e.lastPartner[userID] = partner
	e.lastPartner[partner] = userID
	return partner, true
}

// Text forwards a message to the partner after the moderation filter. A
// violation short-circuits forwarding and escalates through the warning
// ledger instead; reaching the limit bans the sender on the spot.
func (e *Engine) Text(userID int64, text string) error {
	return e.run(func() error {
		if e.bans.IsBanned(userID) {
			return ErrBanned
		}
		partner, ok := e.pairs.PartnerOf(userID)
		if !ok {
			return ErrNotPaired
		}
		if reason, violating := e.filter.Check(text); violating {
			count, hitLimit := e.warnings.RecordViolation(userID)
			if hitLimit {
				expiry := e.now().Add(e.policy.TempBanDuration)
				e.banUser(userID, BanRecord{
					Reason:    "warning limit reached: " + reason,
					ExpiresAt: &expiry,
				})
				return &PolicyViolationError{Reason: reason, Count: count, Limit: e.warnings.Limit(), Banned: true}
			}
			return &PolicyViolationError{Reason: reason, Count: count, Limit: e.warnings.Limit()}
		}
		e.deliver(partner, Outgoing{Kind: OutText, Text: text})
		if err := e.profiles.IncrMessages(userID); err != nil {
			e.log.Error("message counter update failed", "user_id", userID, "error", err)
		}
		return nil
	})
}

// Media offers a media item to the partner. With a standing auto-approve
// grant the item is delivered immediately and granted is true; otherwise the
// partner receives a consent prompt and the transfer waits for their
// decision.
func (e *Engine) Media(userID int64, item MediaItem) (granted bool, err error) {
	err = e.run(func() error {
		if e.bans.IsBanned(userID) {
			return ErrBanned
		}
		partner, ok := e.pairs.PartnerOf(userID)
		if !ok {
			return ErrNotPaired
		}
		token, direct, err := e.consent.Offer(userID, partner, item)
		if err != nil {
			return err
		}
		if direct {
			granted = true
			media := item
			e.deliver(partner, Outgoing{Kind: OutMedia, Media: &media})
			if err := e.profiles.IncrMediaApproved(userID); err != nil {
				e.log.Error("media counter update failed", "user_id", userID, "error", err)
			}
			return nil
		}
		e.deliver(partner, Outgoing{Kind: OutConsentPrompt, Token: token, MediaKind: item.Kind})
		return nil
	})
	return granted, err
}

// AcceptMedia resolves a pending transfer in the sender's favor and sets
// their auto-approve grant for this recipient.
func (e *Engine) AcceptMedia(actor int64, token string) error {
	return e.run(func() error {
		if e.bans.IsBanned(actor) {
			return ErrBanned
		}
		t, err := e.consent.Accept(token, actor)
		if err != nil {
			return err
		}
		media := t.Item
		e.deliver(actor, Outgoing{Kind: OutMedia, Media: &media})
		e.deliver(t.Sender, Outgoing{Kind: OutText, Text: msgMediaApproved})
		if err := e.profiles.IncrMediaApproved(t.Sender); err != nil {
			e.log.Error("media counter update failed", "user_id", t.Sender, "error", err)
		}
		return nil
	})
}

// RejectMedia discards a pending transfer. No grant is set.
func (e *Engine) RejectMedia(actor int64, token string) error {
	return e.run(func() error {
		if e.bans.IsBanned(actor) {
			return ErrBanned
		}
		t, err := e.consent.Reject(token, actor)
		if err != nil {
			return err
		}
		e.deliver(t.Sender, Outgoing{Kind: OutText, Text: msgMediaRejected})
		if err := e.profiles.IncrMediaRejected(t.Sender); err != nil {
			e.log.Error("media counter update failed", "user_id", t.Sender, "error", err)
		}
		return nil
	})
}

// Report files a report against another user and evaluates the auto-ban
// policy on the new totals.
func (e *Engine) Report(reporter, reported int64, category, reason string) error {
	return e.run(func() error {
		if e.bans.IsBanned(reporter) {
			return ErrBanned
		}
		if reporter == reported {
			return ErrSelfReport
		}
		reports, supports, err := e.ledger.AddReport(reporter, reported, category, reason)
		if err != nil {
			return err
		}
		e.evaluateReportPolicy(reported, reports, supports)
		return nil
	})
}

// Support backs another user. Unique per (supporter, supported) pair. The
// totals feed the same auto-ban policy as reports.
func (e *Engine) Support(supporter, supported int64) error {
	return e.run(func() error {
		if e.bans.IsBanned(supporter) {
			return ErrBanned
		}
		if supporter == supported {
			return ErrSelfSupport
		}
		reports, supports, err := e.ledger.AddSupport(supporter, supported)
		if err != nil {
			return err
		}
		e.evaluateReportPolicy(supported, reports, supports)
		return nil
	})
}

// evaluateReportPolicy applies the community thresholds. High support on a
// heavily reported user escalates straight to a permanent ban; reports alone
// earn a temporary one. An active temporary ban does not shield the user
// from the permanent escalation: ban records are last-writer-wins.
func (e *Engine) evaluateReportPolicy(reported int64, reports, supports int64) {
	if rec, ok := e.bans.Record(reported); ok && rec.Permanent {
		return
	}
	switch {
	case reports > e.policy.ReportThreshold && supports >= e.policy.SupportOverride:
		e.banUser(reported, BanRecord{
			Reason:    "community reports",
			Permanent: true,
		})
	case reports >= e.policy.ReportThreshold && !e.bans.IsBanned(reported):
		expiry := e.now().Add(e.policy.TempBanDuration)
		e.banUser(reported, BanRecord{
			Reason:    "community reports",
			ExpiresAt: &expiry,
		})
	}
}

// Ban is the administrative entry point. A zero duration with permanent
// false is rejected by callers; here the record is stored as given.
func (e *Engine) Ban(target int64, duration time.Duration, permanent bool, reason string) error {
	return e.run(func() error {
		rec := BanRecord{Reason: reason, Permanent: permanent}
		if !permanent {
			expiry := e.now().Add(duration)
			rec.ExpiresAt = &expiry
		}
		e.banUser(target, rec)
		return nil
	})
}

// banUser records the ban and atomically clears every queue/pair slot the
// target holds. Must run under the engine mutex.
func (e *Engine) banUser(target int64, rec BanRecord) {
	if target == e.policy.OwnerID {
		e.log.Warn("refusing to ban owner", "user_id", target)
		return
	}
	e.bans.Ban(target, rec)
	if err := e.archive.RecordBan(target, rec); err != nil {
		e.log.Error("ban archive write failed", "user_id", target, "error", err)
	}
	e.warnings.Reset(target)
	e.queue.Remove(target)
	if partner, ok := e.endChat(target); ok {
		e.deliver(partner, Outgoing{Kind: OutText, Text: msgPartnerLeft})
		e.deliver(partner, Outgoing{Kind: OutFeedbackPrompt, PeerID: target})
	} else {
		e.consent.Abandon(target)
	}
	e.deliver(target, Outgoing{Kind: OutText, Text: bannedMessage(rec)})
	e.log.Info("user banned", "user_id", target, "permanent", rec.Permanent, "reason", rec.Reason)
}

// Unban lifts a ban and resets the warning counter. Returns false when the
// user had no active record.
func (e *Engine) Unban(target int64) bool {
	var removed bool
	_ = e.run(func() error {
		removed = e.bans.Unban(target)
		if !removed {
			return nil
		}
		if err := e.archive.RecordUnban(target, "admin"); err != nil {
			e.log.Error("ban archive write failed", "user_id", target, "error", err)
		}
		e.warnings.Reset(target)
		e.deliver(target, Outgoing{Kind: OutText, Text: msgUnbanned})
		return nil
	})
	return removed
}

// Disconnect handles a user who became unreachable: release the queue slot,
// tear down the pair, abandon pending transfers. No delivery is attempted to
// the user itself.
func (e *Engine) Disconnect(userID int64) {
	_ = e.run(func() error {
		e.queue.Remove(userID)
		if partner, ok := e.endChat(userID); ok {
			e.deliver(partner, Outgoing{Kind: OutText, Text: msgPartnerLeft})
			e.deliver(partner, Outgoing{Kind: OutFeedbackPrompt, PeerID: userID})
		} else {
			e.consent.Abandon(userID)
		}
		return nil
	})
}

// SweepExpired proactively drops lapsed temporary bans, resets the affected
// warning counters and notifies the users. Lazy expiry already guarantees
// correctness; the sweep only improves the experience.
func (e *Engine) SweepExpired() []int64 {
	var lapsed []int64
	_ = e.run(func() error {
		lapsed = e.bans.SweepExpired()
		e.sweepRuns++
		for _, id := range lapsed {
			e.warnings.Reset(id)
			if err := e.archive.RecordUnban(id, "expired"); err != nil {
				e.log.Error("ban archive write failed", "user_id", id, "error", err)
			}
			e.deliver(id, Outgoing{Kind: OutText, Text: msgBanLifted})
		}
		return nil
	})
	return lapsed
}

// StartSweeper runs SweepExpired on a ticker until ctx is done.
func (e *Engine) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if lapsed := e.SweepExpired(); len(lapsed) > 0 {
					e.log.Info("temporary bans lapsed", "count", len(lapsed))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// PartnerOf returns the user's current partner.
func (e *Engine) PartnerOf(userID int64) (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pairs.PartnerOf(userID)
}

// LastPartnerOf returns the most recent partner, current or former.
func (e *Engine) LastPartnerOf(userID int64) (int64, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	partner, ok := e.lastPartner[userID]
	return partner, ok
}

// IsBanned exposes the registry check to the transport and admin API.
func (e *Engine) IsBanned(userID int64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bans.IsBanned(userID)
}

// Stats returns a snapshot for the health endpoint and /stats command.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	random, seeking := e.queue.Len()
	return Stats{
		WaitingRandom:    random,
		WaitingSeeking:   seeking,
		ActivePairs:      e.pairs.Len(),
		ActiveBans:       e.bans.Count(),
		PendingTransfers: e.consent.Pending(),
		SweepRuns:        e.sweepRuns,
	}
}
