package planner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pantry-planner/internal/llm"
	"pantry-planner/internal/mealplan"
	"pantry-planner/internal/recipe"
	"pantry-planner/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	agentName      = "MealPlanner"
	defaultTimeout = 30 * time.Second
	systemMessage  = "You are a kitchen assistant that plans meals from the user's inventory and recipes."
)

var errNoChat = errors.New("no chat provider configured")

// Store is the part of the entity store the planner reads and writes.
type Store interface {
	Inventory(ctx context.Context) []recipe.Ingredient
	Recipes(ctx context.Context) []recipe.Recipe
	Preferences(ctx context.Context) mealplan.Preferences
	SaveMealPlan(ctx context.Context, p mealplan.MealPlan) mealplan.MealPlan
	CurrentMealPlan(ctx context.Context, now time.Time) (mealplan.MealPlan, bool)
	NewID() string
}

// Request describes one plan generation.
type Request struct {
	Name      string
	StartDate string
	EndDate   string
	Type      mealplan.PlanType
	Override  *mealplan.Override
}

// Planner handles the generation of meal plans.
type Planner struct {
	store   Store
	chat    llm.ChatStreamer
	parser  Parser
	timeout time.Duration
	now     func() time.Time
	logger  *zap.Logger
}

// Option customizes a Planner.
type Option func(*Planner)

// WithTimeout bounds the AI round trip. Past it the fallback runs.
func WithTimeout(d time.Duration) Option {
	return func(p *Planner) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithParser replaces the RoundRobinParser.
func WithParser(parser Parser) Option {
	return func(p *Planner) { p.parser = parser }
}

// WithClock sets the source of GeneratedAt and "now" for the current plan.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// NewPlanner creates a new Planner. chat may be nil, in which case every
// plan comes from the fallback.
func NewPlanner(store Store, chat llm.ChatStreamer, logger *zap.Logger, opts ...Option) *Planner {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Planner{
		store:   store,
		chat:    chat,
		parser:  RoundRobinParser{},
		timeout: defaultTimeout,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// GeneratePlan always returns a stored plan. The AI path is tried first;
// any failure, timeout or cancellation falls back to round-robin meals and
// is only visible through plan.Source and the logs. The returned metadata
// covers the AI attempt, if one was made. A range DateRange rejects
// (unparseable, reversed or longer than 366 days) yields a plan with no meals.
func (p *Planner) GeneratePlan(ctx context.Context, req Request) (mealplan.MealPlan, []shared.AgentMeta) {
	log := p.logger.With(zap.String("request_id", uuid.NewString()))
	// Cancellation only aborts the AI call; the plan is still built and stored.
	storeCtx := context.WithoutCancel(ctx)

	prefs := req.Override.Apply(p.store.Preferences(storeCtx)).Normalize()
	snap := Snapshot{
		PlanID:      p.store.NewID(),
		Dates:       DateRange(req.StartDate, req.EndDate),
		Preferences: prefs,
		Inventory:   p.store.Inventory(storeCtx),
		Recipes:     p.store.Recipes(storeCtx),
	}
	log.Debug("generating meal plan",
		zap.String("start", req.StartDate),
		zap.String("end", req.EndDate),
		zap.Int("days", len(snap.Dates)),
		zap.Int("recipes", len(snap.Recipes)))
	if len(snap.Dates) == 0 {
		log.Debug("date range rejected, plan will have no meals",
			zap.String("start", req.StartDate),
			zap.String("end", req.EndDate),
			zap.Int("max_days", maxPlanDays))
	}

	var metas []shared.AgentMeta
	source := mealplan.SourceAI
	meals, meta, err := p.generateWithAI(ctx, req, snap)
	if meta != nil {
		metas = append(metas, *meta)
	}
	if err != nil {
		if errors.Is(err, errNoChat) {
			log.Debug("no chat provider, using fallback")
		} else {
			log.Warn("AI plan generation failed, using fallback", zap.Error(err))
		}
		meals = BuildMeals(snap)
		source = mealplan.SourceFallback
	}

	planType := req.Type
	if planType != mealplan.Monthly {
		planType = mealplan.Weekly
	}
	name := req.Name
	if name == "" {
		name = fmt.Sprintf("Meal plan %s to %s", req.StartDate, req.EndDate)
	}

	plan := p.store.SaveMealPlan(storeCtx, mealplan.MealPlan{
		ID:          snap.PlanID,
		Name:        name,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Type:        planType,
		Meals:       meals,
		Preferences: prefs,
		GeneratedAt: p.now().UTC(),
		Source:      source,
	})
	log.Info("meal plan generated",
		zap.String("plan_id", plan.ID),
		zap.String("source", string(source)),
		zap.Int("meals", len(plan.Meals)))
	return plan, metas
}

func (p *Planner) generateWithAI(ctx context.Context, req Request, snap Snapshot) ([]mealplan.PlannedMeal, *shared.AgentMeta, error) {
	if p.chat == nil {
		return nil, nil, errNoChat
	}

	prompt, err := buildPlannerPrompt(req, snap)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	resp, err := llm.Complete(ctx, p.chat, []llm.Message{
		{Role: llm.RoleSystem, Content: systemMessage},
		{Role: llm.RoleUser, Content: prompt},
	})
	meta := &shared.AgentMeta{
		AgentName: agentName,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
		Outcome:   shared.OutcomeError,
	}
	if err != nil {
		return nil, meta, fmt.Errorf("failed to get AI response: %w", err)
	}

	meals, err := p.parser.Parse(ctx, resp.Content, snap)
	if err != nil {
		return nil, meta, fmt.Errorf("failed to parse AI response: %w", err)
	}
	meta.Outcome = shared.OutcomeOK
	return meals, meta, nil
}

// CurrentPlan returns the stored plan covering today.
func (p *Planner) CurrentPlan(ctx context.Context) (mealplan.MealPlan, bool) {
	return p.store.CurrentMealPlan(ctx, p.now())
}

// RecheckCurrent refreshes availability of the current plan against today's
// inventory and stores the result.
func (p *Planner) RecheckCurrent(ctx context.Context) (mealplan.MealPlan, bool) {
	plan, ok := p.CurrentPlan(ctx)
	if !ok {
		return mealplan.MealPlan{}, false
	}
	fresh := RecheckAvailability(plan, p.store.Inventory(ctx))
	return p.store.SaveMealPlan(ctx, fresh), true
}
