package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/Flarenzy/labcam/internal/domain"
	"github.com/jonboulle/clockwork"
)

// RacePolicy decides what happens when validation responses overlap.
type RacePolicy int

const (
	// LastArrivalWins applies every response in arrival order.
	LastArrivalWins RacePolicy = iota
	// DropStale discards responses superseded by a newer validation or an
	// input edit, and refuses overlapping submissions.
	DropStale
)

func (p RacePolicy) String() string {
	if p == DropStale {
		return "drop-stale"
	}
	return "last-arrival-wins"
}

const DefaultNotFoundExpiry = 7 * time.Second

type Options struct {
	Logger *slog.Logger
	Clock  clockwork.Clock
	// NotFoundExpiry clears the "not found" message after this long.
	// Zero keeps the message until something replaces it.
	NotFoundExpiry time.Duration
	RacePolicy     RacePolicy
	Lab            domain.LabIdentifier
}

func DefaultOptions() Options {
	return Options{NotFoundExpiry: DefaultNotFoundExpiry}
}

// UIState is everything the workflow shows or holds between user actions.
type UIState struct {
	Message       Message
	SubmitEnabled bool
	Busy          bool
	DeviceInfo    domain.DeviceInfo
	Lab           domain.LabIdentifier
}

type Controller struct {
	registry domain.CameraRegistry
	host     Host
	logger   *slog.Logger
	clock    clockwork.Clock
	expiry   time.Duration
	policy   RacePolicy

	mu         sync.Mutex
	state      UIState
	token      uint64
	pending    int
	submitting bool
	msgTimer   clockwork.Timer
	msgGen     uint64
}

func New(registry domain.CameraRegistry, host Host, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Controller{
		registry: registry,
		host:     host,
		logger:   logger,
		clock:    clock,
		expiry:   opts.NotFoundExpiry,
		policy:   opts.RacePolicy,
		state:    UIState{Lab: opts.Lab},
	}
}

func (c *Controller) State() UIState {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.DeviceInfo = slices.Clone(c.state.DeviceInfo)
	return s
}

// SetLab records the lab the next submission goes to; the add dialog calls
// it when it opens.
func (c *Controller) SetLab(lab domain.LabIdentifier) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Lab = lab
}

// InputChanged invalidates everything learned about the previous address.
func (c *Controller) InputChanged() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token++
	c.clearDeviceInfoLocked()
	c.setSubmitLocked(false)
	c.showLocked(Message{})
}

// Validate checks the address syntax and asks the NVR whether it knows the
// camera. The returned error mirrors the message shown to the user.
func (c *Controller) Validate(ctx context.Context) error {
	c.mu.Lock()
	ip := domain.NormalizeAddress(c.host.Address())
	c.showLocked(Message{})
	c.setSubmitLocked(false)

	if ip == "" {
		c.showLocked(Message{Text: MsgEmptyAddress})
		c.mu.Unlock()
		return fmt.Errorf("%w: empty address", domain.ErrInvalidInput)
	}
	if domain.ValidateAddress(ip) != domain.Valid {
		c.showLocked(Message{Text: MsgInvalidAddress})
		c.mu.Unlock()
		return fmt.Errorf("%w: malformed address %q", domain.ErrInvalidInput, ip)
	}

	c.clearDeviceInfoLocked()
	c.token++
	token := c.token
	c.pending++
	c.setBusyLocked(true)
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "validating camera", "ip", ip, "token", token)
	lookup, err := c.registry.CheckCamera(ctx, ip)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--

	if c.policy == DropStale && token != c.token {
		if c.pending == 0 {
			c.setBusyLocked(false)
		}
		c.logger.DebugContext(ctx, "dropping stale validation response", "ip", ip, "token", token, "current", c.token)
		return domain.ErrStale
	}
	defer c.setBusyLocked(false)

	if err != nil {
		c.clearDeviceInfoLocked()
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return err
		}
		c.showLocked(Message{Text: MsgServerError, Style: StyleFailure})
		return err
	}

	if !lookup.Found {
		c.clearDeviceInfoLocked()
		c.showLocked(Message{Text: MsgCameraNotFound, Style: StyleFailure})
		c.scheduleClearLocked(c.expiry)
		return fmt.Errorf("%w: camera %s", domain.ErrNotFound, ip)
	}

	c.state.DeviceInfo = slices.Clone(lookup.DeviceInfo)
	c.host.SetDeviceInfo(lookup.DeviceInfo.String())
	c.showLocked(Message{Text: MsgCameraFound, Style: StyleSuccess})
	c.setSubmitLocked(true)
	return nil
}

// Submit registers the validated camera with the current lab.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	ip := domain.NormalizeAddress(c.host.Address())
	info := slices.Clone(c.state.DeviceInfo)
	lab := c.state.Lab

	if ip == "" || info.Empty() {
		c.host.Notify(NoticeMissingCamera)
		c.mu.Unlock()
		return domain.ErrMissingCamera
	}
	if lab == "" {
		c.host.Notify(NoticeMissingLab)
		c.mu.Unlock()
		return domain.ErrMissingLab
	}
	if c.policy == DropStale && c.submitting {
		c.mu.Unlock()
		return domain.ErrInFlight
	}
	c.submitting = true
	c.mu.Unlock()

	c.logger.DebugContext(ctx, "submitting camera", "ip", ip, "lab", string(lab))
	result, err := c.registry.AddCamera(ctx, domain.AddCameraInput{
		IP:         ip,
		DeviceInfo: info,
		Lab:        lab,
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			return err
		}
		c.host.Notify(NoticeAddError)
		return err
	}
	if !result.Success {
		notice := NoticeAddRejected
		if result.Message != "" {
			notice = fmt.Sprintf(NoticeAddFailed, result.Message)
		}
		c.host.Notify(notice)
		return fmt.Errorf("%w: %s", domain.ErrRejected, result.Message)
	}

	notice := result.Message
	if notice == "" {
		notice = NoticeAdded
	}
	c.host.Notify(notice)

	c.token++
	c.clearDeviceInfoLocked()
	c.setSubmitLocked(false)
	c.showLocked(Message{})
	c.host.Refresh()
	return nil
}

// Close stops a pending message expiry.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimerLocked()
}

func (c *Controller) clearDeviceInfoLocked() {
	c.state.DeviceInfo = nil
	c.host.SetDeviceInfo("")
}

func (c *Controller) setSubmitLocked(enabled bool) {
	c.state.SubmitEnabled = enabled
	c.host.SetSubmitEnabled(enabled)
}

func (c *Controller) setBusyLocked(busy bool) {
	c.state.Busy = busy
	c.host.SetBusy(busy)
}

// showLocked replaces the message and supersedes any pending expiry.
func (c *Controller) showLocked(msg Message) {
	c.stopTimerLocked()
	c.msgGen++
	c.state.Message = msg
	c.host.ShowMessage(msg)
}

func (c *Controller) scheduleClearLocked(after time.Duration) {
	if after <= 0 {
		return
	}

	gen := c.msgGen
	c.msgTimer = c.clock.AfterFunc(after, func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		// A timer that fired while a newer message was being shown.
		if gen != c.msgGen {
			return
		}
		c.msgTimer = nil
		c.showLocked(Message{})
	})
}

func (c *Controller) stopTimerLocked() {
	if c.msgTimer != nil {
		c.msgTimer.Stop()
		c.msgTimer = nil
	}
}
