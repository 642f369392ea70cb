package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/donaldgifford/trip-market/internal/api/client"
	"github.com/donaldgifford/trip-market/internal/config"
	"github.com/donaldgifford/trip-market/internal/page"
	"github.com/donaldgifford/trip-market/internal/rates"
	"github.com/donaldgifford/trip-market/internal/session"
	"github.com/donaldgifford/trip-market/pkg/logger"
	domain "github.com/donaldgifford/trip-market/pkg/types"
)

// app holds the collaborators shared by every command of one invocation.
type app struct {
	sess   session.Session
	cfg    config.ClientConfig
	log    *slog.Logger
	client *client.Client
	rates  *rates.Cache
	out    io.Writer
}

func newApp(cmd *cobra.Command) (*app, error) {
	cc, err := clientConfig()
	if err != nil {
		return nil, err
	}

	sess, err := newSession()
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(cmd.ErrOrStderr(), viper.GetString("log-level"), "text")

	opts := []client.Option{
		client.WithHTTPClient(&http.Client{Timeout: cc.Timeout}),
		client.WithRateLimiter(client.NewRateLimiter(cc.RateLimit.PerSecond, cc.RateLimit.Burst)),
		client.WithLogger(log),
	}
	opts = append(opts, sess.ClientOptions()...)
	c := client.New(viper.GetString("server"), opts...)

	return &app{
		sess:   sess,
		cfg:    cc,
		log:    log,
		client: c,
		rates:  rates.NewCache(c.Rates, rates.WithTTL(cc.RateRefresh), rates.WithLogger(log)),
		out:    cmd.OutOrStdout(),
	}, nil
}

// clientConfig reads the client section of the config file, applying the
// --page-size override and defaults.
func clientConfig() (config.ClientConfig, error) {
	var cc config.ClientConfig
	if err := viper.UnmarshalKey("client", &cc); err != nil {
		return cc, fmt.Errorf("reading client config: %w", err)
	}
	if n := viper.GetInt("page-size"); n > 0 {
		cc.PageSize = n
	}
	config.ApplyClientDefaults(&cc)
	if errs := config.ValidateClient(&cc); len(errs) > 0 {
		return cc, fmt.Errorf("invalid client config: %w", errors.Join(errs...))
	}
	return cc, nil
}

// newSession builds the session from --cookie, or from --token and --role.
func newSession() (session.Session, error) {
	if raw := viper.GetString("cookie"); raw != "" {
		return session.FromCookieHeader(raw)
	}
	return session.New(viper.GetString("token"), viper.GetString("role"))
}

func (a *app) env(onRender func(page.View)) page.Env {
	return page.Env{
		Client:    a.client,
		Session:   a.sess,
		Rates:     a.rates,
		Logger:    a.log,
		PageSize:  a.cfg.PageSize,
		Debounce:  a.cfg.Debounce,
		Timeout:   a.cfg.Timeout,
		NoticeTTL: a.cfg.NoticeTTL,
		OnRender:  onRender,
		Now:       time.Now,
	}
}

// controller is the resource-independent surface of a listing page.
type controller interface {
	Resource() domain.Resource
	Preference() domain.UserPreference
	MaxPrice() float64
	Filters() domain.FilterState
	Refresh(ctx context.Context) page.View
	View() page.View
	Flush() bool
	Close()

	SetSearch(term string)
	SetMinPrice(v float64) string
	SetMaxPrice(v float64) string
	SetStartDate(t *time.Time) string
	SetEndDate(t *time.Time) string
	ToggleCategory(id string)
	ToggleType(t string)
	SetMinRating(r float64) string
	SetSort(field domain.SortField, dir domain.SortDirection)
	SetFilters(fs domain.FilterState)
	ClearFilters()
	SetRates(t domain.RateTable)

	GoTo(n int)
	Next()
	Prev()
	ToggleSave(ctx context.Context, id string) (bool, error)
	DismissNotice()
}

func openPage(ctx context.Context, env page.Env, r domain.Resource) (controller, error) {
	switch r {
	case domain.ResourceActivity:
		p, err := page.Activities(ctx, env)
		if err != nil {
			return nil, err
		}
		return p, nil
	case domain.ResourceItinerary:
		p, err := page.Itineraries(ctx, env)
		if err != nil {
			return nil, err
		}
		return p, nil
	case domain.ResourceProduct:
		p, err := page.Products(ctx, env)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown resource %q", r)
	}
}

func parseResource(s string) (domain.Resource, error) {
	r, ok := domain.ParseResource(s)
	if !ok {
		return "", fmt.Errorf("unknown resource %q (want activities, itineraries or products)", s)
	}
	return r, nil
}
