package config

import (
	"sort"

	"github.com/jpalmerr/hoteldash"
)

// BuildPanels converts parsed configuration into SDK panels.
//
// Panels are returned in page order: stats, event_stats, then one audit
// panel per endpoint in the order listed.
func BuildPanels(cfg *Config) ([]hoteldash.Panel, error) {
	var panels []hoteldash.Panel

	if cfg.Stats != nil {
		p, err := hoteldash.NewStatsPanel(cfg.Stats.URL, panelOptions(cfg.Stats.Name, cfg.Stats.Interval, cfg.Stats.Timeout, cfg.Stats.Headers)...)
		if err != nil {
			return nil, err
		}
		panels = append(panels, p)
	}

	if cfg.EventStats != nil {
		ec := cfg.EventStats
		p, err := hoteldash.NewEventTypeStatsPanel(ec.URL, panelOptions(ec.Name, ec.Interval, ec.Timeout, ec.Headers)...)
		if err != nil {
			return nil, err
		}
		panels = append(panels, p)
	}

	if cfg.Audit != nil {
		ac := cfg.Audit
		audits, err := hoteldash.NewAuditPanels(ac.BaseURL, ac.Endpoints, panelOptions("", ac.Interval, ac.Timeout, ac.Headers)...)
		if err != nil {
			return nil, err
		}
		panels = append(panels, audits...)
	}

	return panels, nil
}

// BuildOptions converts parsed configuration into dashboard options,
// including the panels from [BuildPanels].
func BuildOptions(cfg *Config) ([]hoteldash.Option, error) {
	panels, err := BuildPanels(cfg)
	if err != nil {
		return nil, err
	}

	opts := []hoteldash.Option{
		hoteldash.WithPanels(panels...),
		hoteldash.WithPort(cfg.Port),
		hoteldash.WithPollOnMount(cfg.PollOnMountEnabled()),
	}
	if cfg.Title != "" {
		opts = append(opts, hoteldash.WithTitle(cfg.Title))
	}
	return opts, nil
}

func panelOptions(name string, interval, timeout Duration, headers map[string]string) []hoteldash.PanelOption {
	var opts []hoteldash.PanelOption

	if name != "" {
		opts = append(opts, hoteldash.WithName(name))
	}
	if interval != 0 {
		opts = append(opts, hoteldash.WithInterval(interval.Duration()))
	}
	if timeout != 0 {
		opts = append(opts, hoteldash.WithTimeout(timeout.Duration()))
	}
	if len(headers) > 0 {
		opts = append(opts, hoteldash.WithHeaders(mapToKeyValuePairs(headers)...))
	}
	return opts
}

// mapToKeyValuePairs converts a map to a sorted slice of key-value pairs.
func mapToKeyValuePairs(m map[string]string) []string {
	// sort keys for deterministic ordering
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(m)*2)
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return pairs
}
