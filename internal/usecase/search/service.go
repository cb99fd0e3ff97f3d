// Package search runs the identity-resolution pipeline: shard resolution,
// query embedding, vector retrieval, similarity features, compound scoring,
// and final filtering.
package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fafadlian/similaritySearch-V3/internal/domain"
	"github.com/fafadlian/similaritySearch-V3/internal/domain/match"
	"github.com/fafadlian/similaritySearch-V3/internal/domain/passenger"
	"github.com/fafadlian/similaritySearch-V3/internal/domain/shard"
	"github.com/fafadlian/similaritySearch-V3/internal/domain/similarity"
	"github.com/fafadlian/similaritySearch-V3/internal/metrics"
	"github.com/fafadlian/similaritySearch-V3/internal/usecase/classify"
	"github.com/fafadlian/similaritySearch-V3/internal/usecase/embed"
)

// Config holds the serving parameters of the pipeline.
type Config struct {
	Shards                  []string // ordered shard labels defining the archive windows
	TopK                    int
	MaxDistanceKm           float64
	MinCompoundScore        float64
	DefaultNameThreshold    float64
	DefaultAgeThreshold     float64
	MinClassifierConfidence float64
	Weights                 Weights
}

// Request is a similarity search request with the caller's thresholds.
// Nil thresholds take the configured defaults.
type Request struct {
	Firstname       string
	Surname         string
	DOB             string // YYYY-MM-DD or empty
	Address         string
	CityName        string
	Sex             string
	Nationality     string
	OriginIATA      string
	DestinationIATA string

	ArrivalFrom time.Time
	ArrivalTo   time.Time

	NameThreshold     *float64
	AgeThreshold      *float64
	LocationThreshold *float64
}

// Response is the result of one search. Status is always "success" for
// no-match conditions; Message says which one. Warnings carry per-shard
// failures that did not abort the request.
type Response struct {
	Status   string         `json:"status"`
	Message  string         `json:"message,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Data     []match.Result `json:"data"`
}

// Service is the similarity search pipeline.
type Service struct {
	cfg        Config
	store      ArtifactStore
	geo        GeoService
	embedder   *embed.Embedder
	classifier classify.Scorer // nil: distance-derived confidence
	logger     *zap.Logger
	nowFn      func() time.Time
}

// New creates the pipeline service.
func New(cfg Config, store ArtifactStore, geo GeoService, embedder *embed.Embedder,
	classifier classify.Scorer, logger *zap.Logger) (*Service, error) {
	if err := cfg.Weights.Validate(); err != nil {
		return nil, err
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.MaxDistanceKm <= 0 {
		cfg.MaxDistanceKm = 20037.5
	}
	return &Service{
		cfg:        cfg,
		store:      store,
		geo:        geo,
		embedder:   embedder,
		classifier: classifier,
		logger:     logger,
		nowFn:      time.Now,
	}, nil
}

// WithNow overrides the reference time used for age features.
func (s *Service) WithNow(nowFn func() time.Time) *Service {
	s.nowFn = nowFn
	return s
}

// Search resolves shards for the arrival window, retrieves candidates
// from each concurrently, and scores them. A failing shard is reported in
// Warnings without aborting its siblings; only total failure is an error.
func (s *Service) Search(ctx context.Context, req Request) (Response, error) {
	start := time.Now()
	resp, err := s.search(ctx, req)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SearchesTotal.WithLabelValues("error").Inc()
		return resp, err
	}
	metrics.SearchesTotal.WithLabelValues("success").Inc()
	metrics.SearchCandidates.Observe(float64(len(resp.Data)))
	return resp, nil
}

func (s *Service) search(ctx context.Context, req Request) (Response, error) {
	if req.ArrivalFrom.IsZero() || req.ArrivalTo.IsZero() || req.ArrivalTo.Before(req.ArrivalFrom) {
		return Response{}, fmt.Errorf("%w: from %v, to %v",
			domain.ErrInvalidDateRange, req.ArrivalFrom, req.ArrivalTo)
	}

	windows, skipped := shard.Resolve(s.cfg.Shards, req.ArrivalFrom, req.ArrivalTo)
	for _, label := range skipped {
		s.logger.Warn("skipping malformed shard label", zap.String("label", label))
	}
	if len(windows) == 0 {
		return Response{
			Status:  "success",
			Message: domain.ErrNoShards.Error(),
			Data:    []match.Result{},
		}, nil
	}

	query := s.enrichQuery(req)

	var (
		mu        sync.Mutex
		cands     []candidate
		warnings  []string
		succeeded int
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range windows {
		w := w
		g.Go(func() error {
			shardCands, err := s.searchShard(gctx, w.Label, query)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				s.logger.Error("shard retrieval failed",
					zap.String("shard", w.Label), zap.Error(err))
				warnings = append(warnings, fmt.Sprintf("shard %s: %v", w.Label, err))
				return nil
			}
			succeeded++
			cands = append(cands, shardCands...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Response{}, err
	}
	if succeeded == 0 {
		return Response{}, fmt.Errorf("all %d shards failed: %s",
			len(windows), warnings[0])
	}

	cands = filterArrivalWindow(cands, req.ArrivalFrom, req.ArrivalTo)
	if len(cands) == 0 {
		return Response{
			Status:   "success",
			Message:  "no candidates in the requested arrival window",
			Warnings: warnings,
			Data:     []match.Result{},
		}, nil
	}

	results := s.score(query, req, cands)
	if len(results) == 0 {
		return Response{
			Status:   "success",
			Message:  "no similar passengers found",
			Warnings: warnings,
			Data:     []match.Result{},
		}, nil
	}

	s.logger.Info("similarity search completed",
		zap.Int("shards", len(windows)),
		zap.Int("candidates", len(cands)),
		zap.Int("matches", len(results)),
	)
	return Response{Status: "success", Warnings: warnings, Data: results}, nil
}

// enrichQuery resolves the query's travel endpoints and address city
// against the geo reference service. Unresolvable coordinates stay NaN so
// geo features degrade to no signal.
func (s *Service) enrichQuery(req Request) passenger.Query {
	q := passenger.Query{
		Firstname:       req.Firstname,
		Surname:         req.Surname,
		DOB:             req.DOB,
		Address:         req.Address,
		City:            req.CityName,
		Sex:             req.Sex,
		Nationality:     req.Nationality,
		OriginIATA:      req.OriginIATA,
		DestinationIATA: req.DestinationIATA,
		OriginLat:       math.NaN(),
		OriginLon:       math.NaN(),
		DestLat:         math.NaN(),
		DestLon:         math.NaN(),
		CityLat:         math.NaN(),
		CityLon:         math.NaN(),
	}
	if lat, lon, ok := s.geo.CoordsByIATA(req.OriginIATA); ok {
		q.OriginLat, q.OriginLon = lat, lon
	}
	if lat, lon, ok := s.geo.CoordsByIATA(req.DestinationIATA); ok {
		q.DestLat, q.DestLon = lat, lon
	}
	if lat, lon, ok := s.geo.CoordsByCity(req.CityName); ok {
		q.CityLat, q.CityLon = lat, lon
	}
	q.Country, _ = s.geo.CountryByCity(req.CityName)
	q.OriginCity, _ = s.geo.CityByIATA(req.OriginIATA)
	q.OriginCtry, _ = s.geo.CountryByIATA(req.OriginIATA)
	q.DestCity, _ = s.geo.CityByIATA(req.DestinationIATA)
	q.DestCtry, _ = s.geo.CountryByIATA(req.DestinationIATA)
	return q
}

// searchShard embeds the query in one shard's space and retrieves its
// top-K candidates.
func (s *Service) searchShard(ctx context.Context, label string, q passenger.Query) ([]candidate, error) {
	bundle, err := s.store.Load(ctx, label)
	if err != nil {
		return nil, err
	}

	qvec, err := s.embedder.Embed(bundle, embed.FromQuery(q))
	if err != nil {
		return nil, err
	}
	hits, err := bundle.Index.Search(qvec, s.cfg.TopK)
	if err != nil {
		return nil, err
	}

	var qnorm []float32
	if s.classifier != nil {
		if qnorm, err = s.embedder.EmbedNormalized(bundle, embed.FromQuery(q)); err != nil {
			return nil, err
		}
	}

	cands := make([]candidate, 0, len(hits))
	for _, hit := range hits {
		rec := bundle.Meta[hit.Row]
		c := candidate{
			rec:        rec,
			shard:      label,
			rank:       hit.Rank,
			distance:   hit.Distance,
			confidence: hit.Confidence,
			classifier: math.NaN(),
		}
		c.originCity, _ = s.geo.CityByIATA(rec.DepartureAirport)
		c.originCtry, _ = s.geo.CountryByIATA(rec.DepartureAirport)
		c.destCity, _ = s.geo.CityByIATA(rec.ArrivalAirport)
		c.destCtry, _ = s.geo.CountryByIATA(rec.ArrivalAirport)

		if s.classifier != nil {
			cnorm, err := s.embedder.EmbedNormalized(bundle, embed.FromRecord(rec))
			if err != nil {
				return nil, err
			}
			c.classifier = s.classifier.Score(qnorm, cnorm)
		}
		cands = append(cands, c)
	}
	return cands, nil
}

// filterArrivalWindow keeps candidates whose own flight times fall in the
// requested window. Rows with unparseable times are dropped: the caller
// asked for a window and those rows cannot prove membership.
func filterArrivalWindow(cands []candidate, from, to time.Time) []candidate {
	kept := cands[:0]
	for _, c := range cands {
		dep, depOK := passenger.ParseTime(c.rec.DepartureTime)
		arr, arrOK := passenger.ParseTime(c.rec.ArrivalTime)
		if !depOK || !arrOK {
			continue
		}
		if dep.Before(from) || arr.After(to) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// score computes features, applies thresholds, blends the compound score,
// deduplicates, and sorts.
func (s *Service) score(q passenger.Query, req Request, cands []candidate) []match.Result {
	now := s.nowFn()
	nameThreshold := threshold(req.NameThreshold, s.cfg.DefaultNameThreshold)
	ageThreshold := threshold(req.AgeThreshold, s.cfg.DefaultAgeThreshold)
	applyAge := req.DOB != ""

	ct := buildCounters(cands)
	results := make([]match.Result, 0, len(cands))
	for _, c := range cands {
		f := computeFeatures(q, c, ct, s.cfg.MaxDistanceKm, now)

		if f.FNSimilarity.Finite() < nameThreshold || f.SNSimilarity.Finite() < nameThreshold {
			continue
		}
		if applyAge && f.AgeSimilarity.Finite() < ageThreshold {
			continue
		}

		confidence := round4(c.confidence * 100)
		if s.classifier != nil {
			confidence = round4(c.classifier)
			if confidence < s.cfg.MinClassifierConfidence {
				continue
			}
		}
		compound := s.cfg.Weights.Compound(f)
		if compound < s.cfg.MinCompoundScore {
			continue
		}

		r := match.Result{
			Record:             c.rec,
			FullName:           c.rec.FullName(),
			OriginCity:         c.originCity,
			OriginCountry:      c.originCtry,
			DestinationCity:    c.destCity,
			DestinationCountry: c.destCtry,
			Shard:              c.shard,
			Rank:               c.rank,
			Distance:           similarity.Score(c.distance),
			ConfidenceLevel:    similarity.Score(confidence),
			Features:           f,
			CompoundScore:      similarity.Score(compound),
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		ci, cj := results[i].ConfidenceLevel.Finite(), results[j].ConfidenceLevel.Finite()
		if ci != cj {
			return ci > cj
		}
		si, sj := results[i].CompoundScore.Finite(), results[j].CompoundScore.Finite()
		if si != sj {
			return si > sj
		}
		return results[i].TravelDoc < results[j].TravelDoc
	})

	return dedupe(results)
}

// dedupe keeps the best-ranked row per natural key; input must be sorted.
func dedupe(results []match.Result) []match.Result {
	seen := make(map[string]struct{}, len(results))
	kept := results[:0]
	for _, r := range results {
		key := r.DedupKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, r)
	}
	return kept
}

func threshold(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
