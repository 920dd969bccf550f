package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"time"
)

// target describes one request replayed against both backends. Fields lists
// the keys compared on each returned object; an empty list compares everything.
type target struct {
	Method     string          `json:"method"`
	Path       string          `json:"path"`
	LegacyPath string          `json:"legacy_path"`
	Body       json.RawMessage `json:"body"`
	Fields     []string        `json:"fields"`
	Critical   bool            `json:"critical"`
}

type config struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		token       string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080/api", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:3001/api", "Legacy Express API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "shadow_compare", "targets.json"), "Path to JSON targets file")
	flag.StringVar(&token, "token", os.Getenv("SHADOW_TOKEN"), "Bearer token sent to the Go API")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		comparisons  []comparison
		breaking     int
		optionalDiff int
	)

	for _, t := range targets {
		comp := compareTarget(client, goBase, legacyBase, token, t)
		diverged := comp.Error != nil || !comp.StatusMatch || !comp.BodyMatch
		switch {
		case diverged && t.Critical:
			breaking++
		case diverged && comp.Error == nil:
			optionalDiff++
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return cfg.Targets, nil
}

func compareTarget(client *http.Client, goBase, legacyBase, token string, tgt target) comparison {
	comp := comparison{Target: tgt}

	legacyPath := tgt.LegacyPath
	if legacyPath == "" {
		legacyPath = tgt.Path
	}
	goStatus, goBody, goDur, goErr := performRequest(client, goBase, tgt.Method, tgt.Path, tgt.Body, token)
	legacyStatus, legacyBody, legacyDur, legacyErr := performRequest(client, legacyBase, tgt.Method, legacyPath, tgt.Body, "")
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	if goStatus >= http.StatusBadRequest {
		// error bodies differ by contract; the status is what matters
		comp.BodyMatch = comp.StatusMatch
		return comp
	}

	comp.BodyMatch = bodiesEqual(unwrapEnvelope(goBody), legacyBody, tgt.Fields)
	return comp
}

func performRequest(client *http.Client, base, method, path string, body json.RawMessage, token string) (int, []byte, time.Duration, error) {
	if client == nil {
		return 0, nil, 0, errors.New("nil client")
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	url := strings.TrimRight(base, "/") + path

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, payload, time.Since(start), nil
}

// unwrapEnvelope returns the data member of a {"data": ...} response.
func unwrapEnvelope(body []byte) []byte {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Data) == 0 {
		return body
	}
	return envelope.Data
}

func bodiesEqual(a, b []byte, fields []string) bool {
	if len(fields) == 0 && bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	aj = project(normalize(aj), fields)
	bj = project(normalize(bj), fields)
	sortRows(aj)
	sortRows(bj)
	return reflect.DeepEqual(aj, bj)
}

func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, child := range val {
			val[k] = normalize(child)
		}
	case []interface{}:
		for i, child := range val {
			val[i] = normalize(child)
		}
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
	case string:
		// the legacy API serialises DATE columns as midnight timestamps
		if len(val) > 10 && strings.HasSuffix(val, "T00:00:00.000Z") {
			return val[:10]
		}
	}
	return v
}

func project(v interface{}, fields []string) interface{} {
	if len(fields) == 0 {
		return v
	}
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(fields))
		for _, f := range fields {
			if field, ok := val[f]; ok {
				out[f] = field
			}
		}
		return out
	case []interface{}:
		for i, child := range val {
			val[i] = project(child, fields)
		}
	}
	return v
}

// sortRows orders arrays by their JSON encoding so row order does not count as a diff.
func sortRows(v interface{}) {
	rows, ok := v.([]interface{})
	if !ok {
		return
	}
	keys := make([]string, len(rows))
	for i, row := range rows {
		encoded, _ := json.Marshal(row)
		keys[i] = string(encoded)
	}
	sort.Sort(byKey{rows: rows, keys: keys})
}

type byKey struct {
	rows []interface{}
	keys []string
}

func (b byKey) Len() int           { return len(b.rows) }
func (b byKey) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byKey) Swap(i, j int) {
	b.rows[i], b.rows[j] = b.rows[j], b.rows[i]
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
}

func printReport(results []comparison) {
	fmt.Println("Shadow Compare Report")
	fmt.Println("======================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Printf("  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Printf("  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else {
			fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
		}
	}
}
