package portfolio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/wonny/aegis-wheel/internal/contracts"
	"github.com/wonny/aegis-wheel/pkg/config"
	"github.com/wonny/aegis-wheel/pkg/httputil"
	"github.com/wonny/aegis-wheel/pkg/logger"
)

// FileSource reads a JSON or YAML record from disk
type FileSource struct {
	path string
}

// NewFileSource creates a new file source
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name returns the adapter name
func (s *FileSource) Name() string { return config.SourceFile }

// Load reads and validates the record
func (s *FileSource) Load(ctx context.Context) (*contracts.Portfolio, error) {
	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}

	format := FormatJSON
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	}

	pf, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	pf.Source = s.Name()
	return pf, nil
}

// JSLiteralSource extracts a JS object literal from a build script
type JSLiteralSource struct {
	path     string
	variable string
}

// NewJSLiteralSource creates a new script source. variable defaults to DATA
func NewJSLiteralSource(path, variable string) *JSLiteralSource {
	if variable == "" {
		variable = "DATA"
	}
	return &JSLiteralSource{path: path, variable: variable}
}

// Name returns the adapter name
func (s *JSLiteralSource) Name() string { return config.SourceJSLiteral }

// Load extracts the literal, repairs it into JSON and validates it
func (s *JSLiteralSource) Load(ctx context.Context) (*contracts.Portfolio, error) {
	data, err := readFile(s.path)
	if err != nil {
		return nil, err
	}

	literal, err := ExtractObject(string(data), s.variable)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrNoPortfolio, s.path, err)
	}

	// 따옴표 없는 키, trailing comma, 주석 → JSON
	repaired, err := jsonrepair.JSONRepair(literal)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: repair object literal: %v", contracts.ErrInvalidPortfolio, s.path, err)
	}

	pf, err := Decode([]byte(repaired), FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	pf.Source = s.Name()
	return pf, nil
}

// HTTPSource fetches a JSON record from an endpoint
type HTTPSource struct {
	url    string
	client *httputil.Client
}

// NewHTTPSource creates a new HTTP source
func NewHTTPSource(url string, client *httputil.Client) *HTTPSource {
	return &HTTPSource{url: url, client: client}
}

// Name returns the adapter name
func (s *HTTPSource) Name() string { return config.SourceHTTP }

// Load fetches and validates the record
func (s *HTTPSource) Load(ctx context.Context) (*contracts.Portfolio, error) {
	data, err := s.client.GetBytes(ctx, s.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contracts.ErrSourceUnavailable, s.url, err)
	}

	pf, err := Decode(data, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.url, err)
	}
	pf.Source = s.Name()
	return pf, nil
}

// FallbackSource loads an explicitly configured dataset when the primary is unavailable.
// Invalid primary data does not fall back.
type FallbackSource struct {
	primary  contracts.PortfolioSource
	fallback contracts.PortfolioSource
	logger   *logger.Logger
}

// NewFallbackSource creates a new fallback source
func NewFallbackSource(primary, fallback contracts.PortfolioSource, log *logger.Logger) *FallbackSource {
	return &FallbackSource{primary: primary, fallback: fallback, logger: log}
}

// Name returns the primary adapter name
func (s *FallbackSource) Name() string {
	return s.primary.Name()
}

// Load tries the primary, then the fallback
func (s *FallbackSource) Load(ctx context.Context) (*contracts.Portfolio, error) {
	pf, err := s.primary.Load(ctx)
	if err == nil {
		return pf, nil
	}
	if !errors.Is(err, contracts.ErrSourceUnavailable) {
		return nil, err
	}

	s.logger.WithError(err).WithField("fallback", s.fallback.Name()).Warn("Primary position source unavailable, using fallback")

	pf, ferr := s.fallback.Load(ctx)
	if ferr != nil {
		return nil, fmt.Errorf("fallback after %v: %w", err, ferr)
	}
	pf.Source = s.fallback.Name() + " (fallback)"
	return pf, nil
}

// NewSource builds the configured source
func NewSource(cfg *config.Config, log *logger.Logger) (contracts.PortfolioSource, error) {
	pc := cfg.Portfolio
	if pc.Location == "" {
		return nil, fmt.Errorf("%w: PORTFOLIO_LOCATION is empty", contracts.ErrNoPortfolio)
	}

	var src contracts.PortfolioSource
	switch pc.Source {
	case config.SourceFile, "":
		src = NewFileSource(pc.Location)
	case config.SourceJSLiteral:
		src = NewJSLiteralSource(pc.Location, pc.Variable)
	case config.SourceHTTP:
		client := httputil.New(log, pc.HTTPTimeout)
		if pc.RateLimit > 0 {
			client = client.WithRateLimit(pc.RateLimit)
		}
		src = NewHTTPSource(pc.Location, client)
	default:
		return nil, fmt.Errorf("unknown portfolio source: %s", pc.Source)
	}

	if pc.FallbackPath != "" {
		src = NewFallbackSource(src, NewFileSource(pc.FallbackPath), log)
	}
	return src, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", contracts.ErrSourceUnavailable, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
