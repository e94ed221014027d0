package metrics

import (
	"fmt"
	"sort"
	"strings"
)

// Sample is one series of a pipeline metric.
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// Service reads back the pipeline metrics for the UI.
type Service struct {
	collector *Collector
}

// NewService creates a new metrics service.
func NewService(collector *Collector) *Service {
	return &Service{collector: collector}
}

// Summary returns the counters of this application, sorted by name.
// Histograms are reported by their sample count.
func (s *Service) Summary() ([]Sample, error) {
	families, err := s.collector.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("failed to gather metrics: %w", err)
	}
	var samples []Sample
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), namespace+"_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			sample := Sample{Name: mf.GetName()}
			if len(m.GetLabel()) > 0 {
				sample.Labels = make(map[string]string, len(m.GetLabel()))
				for _, lp := range m.GetLabel() {
					sample.Labels[lp.GetName()] = lp.GetValue()
				}
			}
			switch {
			case m.GetCounter() != nil:
				sample.Value = m.GetCounter().GetValue()
			case m.GetHistogram() != nil:
				sample.Value = float64(m.GetHistogram().GetSampleCount())
			}
			samples = append(samples, sample)
		}
	}
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].Name < samples[j].Name })
	return samples, nil
}
