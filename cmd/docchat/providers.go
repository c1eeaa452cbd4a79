package main

import (
	"fmt"

	"docchat/pkg/ai"
)

// Run executes the providers command.
func (c *ProvidersCmd) Run(deps *Dependencies) error {
	for _, info := range ai.ListProviders() {
		marker := " "
		if string(info.Type) == deps.Config.LLMProvider {
			marker = "*"
		}

		key := "no key needed"
		if info.RequiresKey {
			key = info.KeyEnv + " missing"
			if providerHasKey(deps, info.Type) {
				key = info.KeyEnv + " set"
			}
		}

		fmt.Fprintf(deps.Stdout, "%s %-11s %-10s %-58s %s\n", marker, info.Type, info.Name, info.Description, key)
	}
	return nil
}

func providerHasKey(deps *Dependencies, pt ai.ProviderType) bool {
	cfg := deps.Config
	cfg.LLMProvider = string(pt)
	return cfg.ActiveProvider().APIKey != ""
}

// providerKeyEnv names the variable that carries the key for provider.
func providerKeyEnv(provider string) string {
	if info, ok := ai.GetProviderInfo(ai.ProviderType(provider)); ok && info.KeyEnv != "" {
		return info.KeyEnv
	}
	return "the provider API key"
}

func providerNames() []string {
	infos := ai.ListProviders()
	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, string(info.Type))
	}
	return names
}
