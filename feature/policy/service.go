package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"url-policy-sync/core/metrics"
	"url-policy-sync/core/reconcile"
	"url-policy-sync/feature/audit"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Listing is the current content of a remote list.
type Listing struct {
	Operation string   `json:"operation"`
	Target    string   `json:"target"`
	Count     int      `json:"count"`
	URLs      []string `json:"urls"`
	Warning   string   `json:"warning,omitempty"`
}

// Activation is the outcome of submitting pending changes.
type Activation struct {
	Status string `json:"status"`
}

// Options configures a Service.
type Options struct {
	// Activate submits pending changes after every successful update.
	Activate bool
	// Concurrency bounds ReconcileMany. Zero means 4.
	Concurrency int
	Recorder    audit.Recorder
	Metrics     *metrics.Metrics
}

// Service reconciles and reads remote lists.
type Service struct {
	client  Caller
	logger  *zap.Logger
	opts    Options
	reads   singleflight.Group
	mu      sync.Mutex
	writers map[string]*sync.Mutex
}

// NewService creates a new policy service.
func NewService(client Caller, logger *zap.Logger, opts Options) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Service{
		client:  client,
		logger:  logger,
		opts:    opts,
		writers: make(map[string]*sync.Mutex),
	}
}

// List fetches the current entries of target. Concurrent calls for the same
// target share one request, which does not depend on any single caller: a
// caller that gives up only stops waiting for it.
func (s *Service) List(ctx context.Context, target Target) (*Listing, error) {
	shared := context.WithoutCancel(ctx)
	ch := s.reads.DoChan(target.String(), func() (any, error) {
		list, err := NewAdapter(s.client, target).Fetch(shared)
		if err != nil {
			return nil, err
		}

		listing := &Listing{
			Operation: "list_" + target.Slug(),
			Target:    target.String(),
			Count:     list.Entries.Len(),
			URLs:      list.Entries.Entries(),
		}
		if list.ShapeErr != nil {
			s.logger.Warn("Remote list could not be parsed", zap.String("target", target.String()), zap.Error(list.ShapeErr))
			listing.Warning = list.ShapeErr.Error()
		}
		return listing, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("failed to fetch %s: %w", target, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, res.Err)
	}

	// Listings are shared between callers; hand out a private copy.
	listing := *res.Val.(*Listing)
	listing.URLs = append([]string(nil), listing.URLs...)
	return &listing, nil
}

// Reconcile adds the entries of raw missing from target.
// Writes to the same target are serialized.
func (s *Service) Reconcile(ctx context.Context, target Target, raw []string, dryRun bool) reconcile.Result {
	desired := reconcile.Normalize(raw)
	runID := uuid.NewString()
	log := s.logger.With(zap.String("run_id", runID))

	if desired.Duplicates() > 0 {
		log.Debug("Dropped duplicate input entries", zap.Int("count", desired.Duplicates()))
	}

	if !dryRun {
		lock := s.writer(target)
		lock.Lock()
		defer lock.Unlock()
	}

	spec := &reconcile.Spec{
		Adapter:   NewAdapter(s.client, target),
		Operation: "bulk_update_" + target.Slug(),
		Logger:    log,
	}

	result := reconcile.Reconcile(ctx, spec, desired, reconcile.Options{DryRun: dryRun, RunID: runID})

	if result.Status == reconcile.StatusUpdated && s.opts.Activate {
		if _, err := s.Activate(ctx); err != nil {
			log.Error("Activation failed", zap.Error(err))
			result.Activation = "failed: " + err.Error()
		} else {
			result.Activation = "activated"
		}
	}

	s.opts.Metrics.ObserveResult(result.Target, string(result.Status))
	s.record(ctx, &result, log)
	return result
}

// ReconcileMany reconciles independent targets concurrently. Results are
// returned in target order.
func (s *Service) ReconcileMany(ctx context.Context, targets []Target, raw []string, dryRun bool) []reconcile.Result {
	results := make([]reconcile.Result, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)
	for i, target := range targets {
		g.Go(func() error {
			results[i] = s.Reconcile(gctx, target, raw, dryRun)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Activate submits pending policy changes.
func (s *Service) Activate(ctx context.Context) (*Activation, error) {
	resp, err := s.client.Do(ctx, http.MethodPost, activatePath, nil)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(http.MethodPost, activatePath); err != nil {
		return nil, err
	}

	activation := &Activation{Status: "ACTIVE"}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, activation); err != nil {
			return nil, fmt.Errorf("failed to decode activation status: %w", err)
		}
	}
	s.logger.Info("Changes activated", zap.String("status", activation.Status))
	return activation, nil
}

func (s *Service) writer(target Target) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.writers[target.String()]
	if !ok {
		lock = &sync.Mutex{}
		s.writers[target.String()] = lock
	}
	return lock
}

// record hands the result to the recorder. A recording failure is logged and
// never changes the result.
func (s *Service) record(ctx context.Context, result *reconcile.Result, log *zap.Logger) {
	if s.opts.Recorder == nil {
		return
	}
	if err := s.opts.Recorder.Record(ctx, result); err != nil {
		log.Warn("Failed to record result", zap.Error(err))
	}
}
