package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type answers map[string]any

// scenarios cover every tier and age group so the policy walk takes each
// path during a run.
var scenarios = []answers{
	{"age_group": "child", "cough_or_difficult_breathing": true, "chest_indrawing": true, "muac_color": "green", "rdt_result": "not_done"},
	{"age_group": "child", "fever": true, "muac_color": "not_measured", "rdt_result": "positive"},
	{"age_group": "infant", "convulsions": true, "muac_color": "yellow", "rdt_result": "negative"},
	{"age_group": "young_infant", "not_feeding_well": true, "respiratory_rate": 64, "muac_color": "not_measured", "rdt_result": "not_done"},
	{"age_group": "child", "muac_color": "not_measured", "rdt_result": "not_done"},
	{"age_group": "child", "oedema": true, "muac_color": "red", "rdt_result": "not_done"},
}

type sample struct {
	latency time.Duration
	status  int
	err     error
}

type report struct {
	requests int
	ok       int
	non2xx   int
	errs     int
	avg      time.Duration
	p50      time.Duration
	p90      time.Duration
	p99      time.Duration
	rps      float64
}

func main() {
	url := flag.String("url", "http://localhost:8080/screen", "screen endpoint URL")
	rps := flag.Int("rps", 50, "target requests per second")
	duration := flag.Duration("duration", 60*time.Second, "test duration")
	workers := flag.Int("workers", 50, "number of concurrent workers")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP client timeout")
	maxP90 := flag.Duration("max-p90", 30*time.Millisecond, "P90 latency budget")
	withPatient := flag.Bool("with-patient", false, "attach a random patient reference so history is written")
	flag.Parse()

	if *rps <= 0 || *duration <= 0 || *workers <= 0 {
		fmt.Fprintln(os.Stderr, "rps, duration and workers must be > 0")
		os.Exit(2)
	}

	bodies, err := encodeScenarios(*withPatient)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode payloads: %v\n", err)
		os.Exit(1)
	}

	samples := run(&http.Client{Timeout: *timeout}, *url, bodies, *rps, *workers, *duration)
	if len(samples) == 0 {
		fmt.Fprintln(os.Stderr, "no requests executed")
		os.Exit(1)
	}
	rep := summarize(samples, *duration)

	fmt.Printf("Load test finished\n")
	fmt.Printf("- target_rps: %d\n", *rps)
	fmt.Printf("- achieved_rps: %.2f\n", rep.rps)
	fmt.Printf("- duration: %s\n", duration.String())
	fmt.Printf("- scenarios: %d\n", len(bodies))
	fmt.Printf("- requests: %d\n", rep.requests)
	fmt.Printf("- 2xx: %d\n", rep.ok)
	fmt.Printf("- non_2xx: %d\n", rep.non2xx)
	fmt.Printf("- errors: %d\n", rep.errs)
	fmt.Printf("- avg_ms: %.3f\n", ms(rep.avg))
	fmt.Printf("- p50_ms: %.3f\n", ms(rep.p50))
	fmt.Printf("- p90_ms: %.3f\n", ms(rep.p90))
	fmt.Printf("- p99_ms: %.3f\n", ms(rep.p99))

	if rep.rps >= float64(*rps)*0.98 && rep.p90 < *maxP90 && rep.errs == 0 && rep.non2xx == 0 {
		fmt.Printf("PASS: meets %d RPS and P90 < %s\n", *rps, *maxP90)
		return
	}
	fmt.Println("FAIL: does not meet target (or has request errors)")
	os.Exit(1)
}

func encodeScenarios(withPatient bool) ([][]byte, error) {
	out := make([][]byte, 0, len(scenarios))
	for _, a := range scenarios {
		payload := map[string]any{"answers": a}
		if withPatient {
			payload["patient_ref"] = uuid.NewString()
		}
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func run(client *http.Client, url string, bodies [][]byte, rps, workers int, duration time.Duration) []sample {
	jobs := make(chan []byte, workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	samples := make([]sample, 0, rps*int(duration.Seconds())+1)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for body := range jobs {
				s := send(client, url, body)
				mu.Lock()
				samples = append(samples, s)
				mu.Unlock()
			}
		}()
	}

	var next atomic.Uint64
	ticker := time.NewTicker(time.Second / time.Duration(rps))
	defer ticker.Stop()
	deadline := time.Now().Add(duration)

	for now := range ticker.C {
		if now.After(deadline) {
			break
		}
		jobs <- bodies[next.Add(1)%uint64(len(bodies))]
	}
	close(jobs)
	wg.Wait()
	return samples
}

func send(client *http.Client, url string, body []byte) sample {
	start := time.Now()
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return sample{latency: time.Since(start), err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	lat := time.Since(start)
	if err != nil {
		return sample{latency: lat, err: err}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return sample{latency: lat, status: resp.StatusCode}
}

func summarize(samples []sample, duration time.Duration) report {
	latencies := make([]time.Duration, 0, len(samples))
	var rep report
	for _, s := range samples {
		latencies = append(latencies, s.latency)
		switch {
		case s.err != nil:
			rep.errs++
		case s.status >= 200 && s.status < 300:
			rep.ok++
		default:
			rep.non2xx++
		}
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	rep.requests = len(latencies)
	rep.p50 = percentile(latencies, 50)
	rep.p90 = percentile(latencies, 90)
	rep.p99 = percentile(latencies, 99)
	rep.avg = average(latencies)
	rep.rps = float64(len(latencies)) / duration.Seconds()
	return rep
}

func percentile(items []time.Duration, p int) time.Duration {
	if len(items) == 0 {
		return 0
	}
	idx := (len(items) - 1) * p / 100
	return items[idx]
}

func average(items []time.Duration) time.Duration {
	if len(items) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range items {
		total += d
	}
	return total / time.Duration(len(items))
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
