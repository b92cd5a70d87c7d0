// Command gateway_probe diffs console gateway responses against the upstream
// education API. The gateway caches and re-shapes data, so after changes to
// the store layer this catches answers drifting from what upstream returns.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

type probe struct {
	Method string `json:"method"`
	// ConsolePath is requested on the gateway; UpstreamPath on the remote API.
	ConsolePath  string `json:"consolePath"`
	UpstreamPath string `json:"upstreamPath"`
	// DataField selects the snapshot field holding the upstream collection,
	// e.g. "items". Empty compares the whole data object.
	DataField string `json:"dataField"`
	Critical  bool   `json:"critical"`
}

type probeFile struct {
	Probes []probe `json:"probes"`
}

type result struct {
	Probe          probe
	ConsoleStatus  int
	UpstreamStatus int
	Match          bool
	Err            error
	ConsoleTook    time.Duration
	UpstreamTook   time.Duration
}

func main() {
	var (
		consoleBase   string
		upstreamBase  string
		sessionToken  string
		upstreamToken string
		probesPath    string
		timeout       time.Duration
	)

	flag.StringVar(&consoleBase, "console-base", "http://localhost:8081", "console gateway base URL")
	flag.StringVar(&upstreamBase, "upstream-base", "http://localhost:3000", "upstream API base URL")
	flag.StringVar(&sessionToken, "session-token", os.Getenv("PROBE_SESSION_TOKEN"), "console session token")
	flag.StringVar(&upstreamToken, "upstream-token", os.Getenv("PROBE_UPSTREAM_TOKEN"), "upstream bearer token")
	flag.StringVar(&probesPath, "probes", filepath.Join("scripts", "gateway_probe", "probes.json"), "path to JSON probes file")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	probes, err := loadProbes(probesPath)
	if err != nil {
		log.Fatalf("failed to load probes: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var results []result
	breaking := 0

	for _, p := range probes {
		res := runProbe(client, consoleBase, upstreamBase, sessionToken, upstreamToken, p)
		if (res.Err != nil || !res.Match) && p.Critical {
			breaking++
		}
		results = append(results, res)
	}

	report(results)
	fmt.Printf("Breaking diffs: %d\n", breaking)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadProbes(path string) ([]probe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file probeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Probes) == 0 {
		return nil, fmt.Errorf("no probes defined in %s", path)
	}
	return file.Probes, nil
}

func runProbe(client *http.Client, consoleBase, upstreamBase, sessionToken, upstreamToken string, p probe) result {
	res := result{Probe: p}

	consoleBody, consoleStatus, consoleTook, err := fetch(client, consoleBase, p.ConsolePath, p.Method, sessionToken)
	if err != nil {
		res.Err = fmt.Errorf("console request failed: %w", err)
		return res
	}
	upstreamBody, upstreamStatus, upstreamTook, err := fetch(client, upstreamBase, p.UpstreamPath, p.Method, upstreamToken)
	if err != nil {
		res.Err = fmt.Errorf("upstream request failed: %w", err)
		return res
	}

	res.ConsoleStatus = consoleStatus
	res.UpstreamStatus = upstreamStatus
	res.ConsoleTook = consoleTook
	res.UpstreamTook = upstreamTook

	consoleData, err := consoleCollection(consoleBody, p.DataField)
	if err != nil {
		res.Err = fmt.Errorf("decode console body: %w", err)
		return res
	}
	var upstreamData interface{}
	if err := json.Unmarshal(upstreamBody, &upstreamData); err != nil {
		res.Err = fmt.Errorf("decode upstream body: %w", err)
		return res
	}
	if m, ok := upstreamData.(map[string]interface{}); ok {
		if inner, exists := m["data"]; exists {
			upstreamData = inner
		}
	}

	normalize(&consoleData)
	normalize(&upstreamData)
	res.Match = reflect.DeepEqual(consoleData, upstreamData)
	return res
}

// consoleCollection unwraps the gateway envelope and optionally narrows to a
// single snapshot field, since snapshots carry loading/error state upstream
// responses do not have.
func consoleCollection(body []byte, field string) (interface{}, error) {
	var envelope struct {
		Data interface{} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if field == "" {
		return envelope.Data, nil
	}
	m, ok := envelope.Data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("console data is not an object")
	}
	return m[field], nil
}

func fetch(client *http.Client, base, path, method, token string) ([]byte, int, time.Duration, error) {
	if method == "" {
		method = http.MethodGet
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequest(strings.ToUpper(method), strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, 0, err
	}
	return body, resp.StatusCode, time.Since(start), nil
}

// normalize collapses whole-valued floats so 3 and 3.0 compare equal.
func normalize(v *interface{}) {
	switch val := (*v).(type) {
	case map[string]interface{}:
		for k, v2 := range val {
			normalize(&v2)
			val[k] = v2
		}
	case []interface{}:
		for i, v2 := range val {
			normalize(&v2)
			val[i] = v2
		}
	case float64:
		if val == float64(int64(val)) {
			*v = int64(val)
		}
	}
}

func report(results []result) {
	fmt.Println("Gateway Probe Report")
	fmt.Println("====================")
	for _, res := range results {
		status := "OK"
		if res.Err != nil {
			status = "ERROR"
		} else if !res.Match {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s <-> %s\n", status, res.Probe.Method, res.Probe.ConsolePath, res.Probe.UpstreamPath)
		if res.Err != nil {
			fmt.Printf("  Error: %v\n", res.Err)
			continue
		}
		fmt.Printf("  Console: %d (%s) | Upstream: %d (%s) | Critical: %t\n",
			res.ConsoleStatus, res.ConsoleTook, res.UpstreamStatus, res.UpstreamTook, res.Probe.Critical)
	}
}
