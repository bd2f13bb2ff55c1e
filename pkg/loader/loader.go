package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/platinummonkey/dml/pkg/cache"
	"github.com/platinummonkey/dml/pkg/directive"
	"github.com/platinummonkey/dml/pkg/dml"
	"github.com/platinummonkey/dml/pkg/dml/parser"
	"github.com/platinummonkey/dml/pkg/observability"
	"github.com/platinummonkey/dml/pkg/validator"
)

// ErrNoSchema is returned by handlers when nothing has been loaded yet
var ErrNoSchema = errors.New("no schema loaded")

// Schema is a parsed and validated datamodel file
type Schema struct {
	Path      string            `json:"path"`
	Datamodel *dml.Datamodel    `json:"datamodel"`
	Result    *validator.Result `json:"-"`
	LoadedAt  time.Time         `json:"loadedAt"`
	Checksum  string            `json:"checksum"`
}

// SchemaError reports the directive errors of a schema that failed
// validation
type SchemaError struct {
	Path   string
	Errors directive.Errors
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema %s has %d directive error(s):\n%s", e.Path, len(e.Errors), e.Errors.Error())
}

func (e *SchemaError) Unwrap() error {
	return e.Errors
}

// Loader reads the schema file and keeps the last valid version
type Loader struct {
	path        string
	validator   *validator.Validator
	logger      *observability.Logger
	metrics     *observability.Metrics
	otelMetrics *observability.OTelMetrics
	debounce    time.Duration

	current atomic.Pointer[Schema]
}

// Option configures a Loader
type Option func(*Loader)

// WithOTelMetrics records loads as OpenTelemetry metrics
func WithOTelMetrics(m *observability.OTelMetrics) Option {
	return func(l *Loader) { l.otelMetrics = m }
}

// WithDebounce sets how long Watch waits for further events before
// reloading; editors often write a file in several steps
func WithDebounce(d time.Duration) Option {
	return func(l *Loader) { l.debounce = d }
}

// NewLoader creates a loader for the schema at path
func NewLoader(path string, v *validator.Validator, logger *observability.Logger, metrics *observability.Metrics, opts ...Option) *Loader {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, io.Discard)
	}
	l := &Loader{
		path:      path,
		validator: v,
		logger:    logger.WithField("schema", path),
		metrics:   metrics,
		debounce:  100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the schema file path
func (l *Loader) Path() string {
	return l.path
}

// Current returns the last schema that loaded without errors, or nil
func (l *Loader) Current() *Schema {
	return l.current.Load()
}

// Load reads, parses and validates the schema file. A schema with
// directive errors is returned together with a *SchemaError and does not
// replace Current.
func (l *Loader) Load(ctx context.Context) (*Schema, error) {
	schema, err := l.load(ctx)
	now := time.Now()
	ok := err == nil

	l.metrics.RecordSchemaLoad(ok, now)
	l.otelMetrics.RecordSchemaLoad(ctx, ok)

	if !ok {
		l.logger.WithError(err).Error("Failed to load schema")
		return schema, err
	}

	l.current.Store(schema)
	l.logger.WithFields(map[string]interface{}{
		"checksum": schema.Checksum,
		"models":   len(schema.Datamodel.Models),
		"enums":    len(schema.Datamodel.Enums),
	}).Info("Schema loaded")
	return schema, nil
}

func (l *Loader) load(ctx context.Context) (*Schema, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	src := string(data)
	dm, err := parser.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", l.path, err)
	}

	result, err := l.validator.Validate(ctx, dm)
	if err != nil {
		return nil, err
	}

	schema := &Schema{
		Path:      l.path,
		Datamodel: dm,
		Result:    result,
		LoadedAt:  time.Now(),
		Checksum:  cache.Key(src),
	}
	if !result.Valid {
		return schema, &SchemaError{Path: l.path, Errors: result.Errors}
	}
	return schema, nil
}

// Watch reloads the schema whenever its file is written or recreated,
// until ctx is done. A failed reload keeps the previous schema.
func (l *Loader) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; atomic saves replace the file
	absPath, err := filepath.Abs(l.path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	filename := filepath.Base(absPath)

	l.logger.Info("Watching schema for changes")
	defer observability.RecoverPanic(l.logger, "schema watcher")

	var (
		timer  *time.Timer
		reload <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filename || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			l.logger.WithField("event", event.Op.String()).Debug("Schema file changed")
			if timer == nil {
				timer = time.NewTimer(l.debounce)
			} else {
				timer.Reset(l.debounce)
			}
			reload = timer.C

		case <-reload:
			reload = nil
			_, _ = l.Load(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.WithError(err).Error("Schema watcher error")
		}
	}
}
