package refdata

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"gopkg.in/yaml.v3"
)

const defaultTimeout = 2 * time.Second

// Source says where reference tables come from. Path wins over URL; with
// neither set the built-in tables are used.
type Source struct {
	Path    string
	URL     string
	Timeout time.Duration
}

// Registry hands out the current reference snapshot. A reload replaces the
// snapshot as a whole, so a calculation that already holds one keeps
// reading consistent tables.
type Registry struct {
	source  Source
	client  *fasthttp.Client
	current atomic.Pointer[Tables]
}

func NewRegistry(source Source) *Registry {
	if source.Timeout <= 0 {
		source.Timeout = defaultTimeout
	}
	r := &Registry{source: source}
	if source.URL != "" {
		r.client = &fasthttp.Client{
			ReadTimeout:         source.Timeout,
			WriteTimeout:        source.Timeout,
			MaxConnsPerHost:     16,
			MaxIdleConnDuration: 90 * time.Second,
		}
	}
	r.current.Store(Default())
	return r
}

// Current returns the snapshot in effect.
func (r *Registry) Current() *Tables {
	return r.current.Load()
}

// Reload fetches the tables from the configured source. On error the
// previous snapshot stays in effect.
func (r *Registry) Reload() (*Tables, error) {
	t, err := r.fetch()
	if err != nil {
		return nil, err
	}
	r.current.Store(t)
	return t, nil
}

func (r *Registry) fetch() (*Tables, error) {
	switch {
	case r.source.Path != "":
		return LoadFile(r.source.Path)
	case r.source.URL != "":
		return r.fetchURL()
	default:
		return Default(), nil
	}
}

func (r *Registry) fetchURL() (*Tables, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.source.URL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	if err := r.client.DoTimeout(req, resp, r.source.Timeout); err != nil {
		return nil, fmt.Errorf("fetch reference data: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("fetch reference data: unexpected status %d", resp.StatusCode())
	}
	return ParseJSON(resp.Body())
}

// LoadFile reads tables from a YAML file, or JSON when the extension is .json.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read reference data: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) (*Tables, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode reference data: %w", err)
	}
	return doc.tables()
}

func ParseJSON(data []byte) (*Tables, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode reference data: %w", err)
	}
	return doc.tables()
}
