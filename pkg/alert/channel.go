package alert

import (
	"log"
	"sync"
	"time"

	"github.com/senaicurso/kalendria/pkg/models"
)

// DefaultDuration is how long a message stays visible
const DefaultDuration = 5 * time.Second

// Banner shows and hides the alert text
type Banner interface {
	ShowBanner(text string)
	HideBanner()
}

// Sound plays the audio cue
type Sound interface {
	Play() error
}

// Option configures a Channel
type Option func(*Channel)

// WithDuration sets how long each message stays visible
func WithDuration(d time.Duration) Option {
	return func(c *Channel) {
		c.duration = d
	}
}

// WithQueue makes messages that arrive while one is visible wait their turn
// instead of replacing it
func WithQueue(enabled bool) Option {
	return func(c *Channel) {
		c.queue = enabled
	}
}

// WithClock replaces the clock used to stamp messages
func WithClock(now func() time.Time) Option {
	return func(c *Channel) {
		c.now = now
	}
}

// Channel delivers alerts to the user. At most one message is visible at a
// time and each one is hidden automatically after the configured duration.
type Channel struct {
	mu sync.Mutex

	banner Banner
	sound  Sound

	duration     time.Duration
	queue        bool
	soundEnabled bool
	now          func() time.Time

	current *models.AlertMessage
	pending []models.AlertMessage

	dismissTimer *time.Timer
	// Bumped whenever the visible message changes so a superseded
	// auto-dismiss timer cannot hide a newer message
	generation uint64
}

// NewChannel creates a channel. sound may be nil to stay silent.
func NewChannel(banner Banner, sound Sound, opts ...Option) *Channel {
	c := &Channel{
		banner:       banner,
		sound:        sound,
		duration:     DefaultDuration,
		soundEnabled: true,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure applies changed settings. They take effect from the next message.
func (c *Channel) Configure(duration time.Duration, queue, soundEnabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if duration > 0 {
		c.duration = duration
	}
	c.queue = queue
	c.soundEnabled = soundEnabled
}

// Show displays text, replacing the visible message (or queueing behind it
// when queueing is enabled), restarts the auto-dismiss countdown and plays
// the audio cue. It never fails.
func (c *Channel) Show(text string) {
	c.mu.Lock()
	msg := models.AlertMessage{Text: text, CreatedAt: c.now()}

	if c.queue && c.current != nil {
		c.pending = append(c.pending, msg)
		c.mu.Unlock()
		log.Printf("[ALERT] Queued \"%s\" (%d waiting)", text, len(c.pending))
		return
	}

	c.displayLocked(msg)
	c.mu.Unlock()

	c.playCue()
}

// Dismiss hides the visible message now. Queued messages, if any, follow.
func (c *Channel) Dismiss() {
	c.mu.Lock()
	if c.current == nil {
		c.mu.Unlock()
		return
	}
	c.hideLocked()
	advanced := c.advanceLocked()
	c.mu.Unlock()

	if advanced {
		c.playCue()
	}
}

// Current returns the visible message
func (c *Channel) Current() (models.AlertMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return models.AlertMessage{}, false
	}
	return *c.current, true
}

// Pending returns the number of queued messages
func (c *Channel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

func (c *Channel) displayLocked(msg models.AlertMessage) {
	if c.dismissTimer != nil {
		c.dismissTimer.Stop()
	}

	c.current = &msg
	c.generation++
	generation := c.generation
	c.dismissTimer = time.AfterFunc(c.duration, func() {
		c.expire(generation)
	})

	c.banner.ShowBanner(msg.Text)
}

func (c *Channel) hideLocked() {
	if c.dismissTimer != nil {
		c.dismissTimer.Stop()
		c.dismissTimer = nil
	}
	c.current = nil
	c.generation++
	c.banner.HideBanner()
}

func (c *Channel) advanceLocked() bool {
	if len(c.pending) == 0 {
		return false
	}
	next := c.pending[0]
	c.pending = c.pending[1:]
	c.displayLocked(next)
	return true
}

func (c *Channel) expire(generation uint64) {
	c.mu.Lock()
	if generation != c.generation || c.current == nil {
		c.mu.Unlock()
		return
	}
	c.hideLocked()
	advanced := c.advanceLocked()
	c.mu.Unlock()

	if advanced {
		c.playCue()
	}
}

// playCue plays the sound. Failures are logged and swallowed.
func (c *Channel) playCue() {
	c.mu.Lock()
	sound, enabled := c.sound, c.soundEnabled
	c.mu.Unlock()

	if sound == nil || !enabled {
		return
	}
	if err := sound.Play(); err != nil {
		log.Printf("[ALERT] Audio cue failed: %v", err)
	}
}
