package config

// mergeConfigs merges override configuration into base. Scalar fields
// override when set; extension sections merge one level deep.
func mergeConfigs(base, override *Config) *Config {
	result := *base

	if override.Version != "" {
		result.Version = override.Version
	}

	result.API = mergeAPI(result.API, override.API)
	result.TUI = mergeTUI(result.TUI, override.TUI)

	if override.Extensions != nil {
		merged := make(map[string]interface{}, len(result.Extensions)+len(override.Extensions))
		for k, v := range result.Extensions {
			merged[k] = v
		}
		for key, value := range override.Extensions {
			if baseMap, ok := merged[key].(map[string]interface{}); ok {
				if overrideMap, ok := value.(map[string]interface{}); ok {
					m := make(map[string]interface{}, len(baseMap)+len(overrideMap))
					for k, v := range baseMap {
						m[k] = v
					}
					for k, v := range overrideMap {
						m[k] = v
					}
					merged[key] = m
					continue
				}
			}
			merged[key] = value
		}
		result.Extensions = merged
	}

	return &result
}

func mergeAPI(base, override APIConfig) APIConfig {
	result := base
	if override.BaseURL != "" {
		result.BaseURL = override.BaseURL
	}
	if override.Token != "" {
		result.Token = override.Token
	}
	if override.TokenFile != "" {
		result.TokenFile = override.TokenFile
	}
	if override.TokenEnv != "" {
		result.TokenEnv = override.TokenEnv
	}
	if override.Timeout != "" {
		result.Timeout = override.Timeout
	}
	if override.RateLimit != 0 {
		result.RateLimit = override.RateLimit
	}
	if override.Burst != 0 {
		result.Burst = override.Burst
	}
	return result
}

func mergeTUI(base, override TUIConfig) TUIConfig {
	result := base
	if override.Theme != "" {
		result.Theme = override.Theme
	}
	if override.Placement != "" {
		result.Placement = override.Placement
	}
	if override.PlacementThreshold != 0 {
		result.PlacementThreshold = override.PlacementThreshold
	}
	if override.MaxHeight != 0 {
		result.MaxHeight = override.MaxHeight
	}
	return result
}
