package config

// mergeConfigs merges override configuration into base. A nil base yields
// a copy of override.
func mergeConfigs(base, override *Config) *Config {
	if base == nil {
		result := *override
		return &result
	}
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}
	if override.Interval != "" {
		result.Interval = override.Interval
	}
	if override.Ignore != nil {
		result.Ignore = append([]string{}, override.Ignore...)
	}
	if override.Output.Format != "" {
		result.Output.Format = override.Output.Format
	}
	if override.WatchConfig != nil {
		watch := *override.WatchConfig
		result.WatchConfig = &watch
	}

	// Merge extensions one level deep
	if override.Extensions != nil {
		merged := make(map[string]interface{}, len(result.Extensions)+len(override.Extensions))
		for key, value := range result.Extensions {
			merged[key] = value
		}
		for key, value := range override.Extensions {
			if baseMap, ok := merged[key].(map[string]interface{}); ok {
				if overrideMap, ok := value.(map[string]interface{}); ok {
					mergedMap := make(map[string]interface{}, len(baseMap)+len(overrideMap))
					for k, v := range baseMap {
						mergedMap[k] = v
					}
					for k, v := range overrideMap {
						mergedMap[k] = v
					}
					merged[key] = mergedMap
					continue
				}
			}
			merged[key] = value
		}
		result.Extensions = merged
	}

	result.Sources = append(append([]string(nil), base.Sources...), override.Sources...)

	return &result
}
