package filter

import (
	"log/slog"

	"github.com/folio-desk/frontdesk/internal/eventbus"
)

// Command is the closed vocabulary announced to table consumers.
type Command int

// Commands published by a Coordinator.
const (
	CommandApply Command = iota + 1
	CommandClear
	CommandSearchFolio
	CommandRemove
	CommandFollowUpRegistered
)

func (c Command) String() string {
	switch c {
	case CommandApply:
		return "apply_filters"
	case CommandClear:
		return "clear_filters"
	case CommandSearchFolio:
		return "search_folio"
	case CommandRemove:
		return "remove_filter"
	case CommandFollowUpRegistered:
		return "follow_up_registered"
	default:
		return "unknown"
	}
}

// Event is what subscribers of a Coordinator receive.
type Event = eventbus.Event[Command, State]

// Handler reacts to coordinator events.
type Handler = eventbus.Handler[Command, State]

// Subscription detaches a handler.
type Subscription = eventbus.Subscription[Command, State]

// Coordinator pairs an Accumulator with the bus its tables listen on. Every
// payload is a snapshot, so later mutation never leaks into a delivered event.
type Coordinator struct {
	filters *Accumulator
	bus     *eventbus.Bus[Command, State]
}

// CoordinatorConfig groups the optional collaborators of a Coordinator.
type CoordinatorConfig struct {
	Name        string
	DefaultRows int
	Logger      *slog.Logger
	Observer    eventbus.Observer
}

// NewCoordinator builds a coordinator for one logical view.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	opts := []eventbus.Option{eventbus.WithLogger(cfg.Logger)}
	if cfg.Name != "" {
		opts = append(opts, eventbus.WithName(cfg.Name))
	}
	if cfg.Observer != nil {
		opts = append(opts, eventbus.WithObserver(cfg.Observer))
	}
	return &Coordinator{
		filters: NewAccumulator(WithDefaultRows(cfg.DefaultRows)),
		bus:     eventbus.New[Command, State](opts...),
	}
}

// Filters exposes the accumulator for field-level mutation.
func (c *Coordinator) Filters() *Accumulator {
	return c.filters
}

// Subscribe attaches a table handler.
func (c *Coordinator) Subscribe(h Handler) *Subscription {
	return c.bus.Subscribe(h)
}

// Publish announces cmd with an explicit payload.
func (c *Coordinator) Publish(cmd Command, state State) {
	c.bus.Publish(cmd, state.Clone())
}

// Apply builds the accumulated query and announces it.
func (c *Coordinator) Apply() State {
	built := c.filters.Build()
	c.bus.Publish(CommandApply, built.Clone())
	return built
}

// Clear resets the accumulator and announces the cleared query.
func (c *Coordinator) Clear() State {
	c.filters.Reset()
	built := c.filters.Build()
	c.bus.Publish(CommandClear, built.Clone())
	return built
}

// SearchFolio jumps back to the first page and searches by folio.
func (c *Coordinator) SearchFolio(folio string) State {
	c.filters.SetPage(0, c.rows())
	c.filters.SetFolio(folio)
	built := c.filters.Build()
	c.bus.Publish(CommandSearchFolio, built.Clone())
	return built
}

// RemoveFilter drops one field and announces the narrower query.
func (c *Coordinator) RemoveFilter(f Field) State {
	c.filters.Remove(f)
	built := c.filters.Build()
	c.bus.Publish(CommandRemove, built.Clone())
	return built
}

// NotifyFollowUp tells tables a follow-up was registered so they refresh the
// current page.
func (c *Coordinator) NotifyFollowUp() {
	c.bus.Publish(CommandFollowUpRegistered, c.filters.Current())
}

func (c *Coordinator) rows() int {
	if rows := c.filters.Current().RowsPerPage(); rows > 0 {
		return rows
	}
	return c.filters.DefaultRows()
}
