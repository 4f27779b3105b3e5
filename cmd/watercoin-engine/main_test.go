package main

import "testing"

func TestSampleValue(t *testing.T) {
	cases := []struct {
		line string
		want float64
	}{
		{`watercoin_queue_length 12`, 12},
		{`watercoin_readings_total{device="A",label="bad",safe="false"} 3`, 3},
		{`watercoin_sink_latency_seconds_sum 1.5e-03`, 0.0015},
	}
	for _, tc := range cases {
		got, ok := sampleValue(tc.line)
		if !ok || got != tc.want {
			t.Fatalf("sampleValue(%q) = %v, %v; want %v", tc.line, got, ok, tc.want)
		}
	}
	if _, ok := sampleValue("garbage"); ok {
		t.Fatalf("expected parse failure")
	}
}
