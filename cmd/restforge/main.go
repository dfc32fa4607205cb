package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/restforge/restforge/internal/config"
	"github.com/restforge/restforge/pkg/client"
	"github.com/restforge/restforge/pkg/llm"
	pkgLogger "github.com/restforge/restforge/pkg/logger"
)

// resolveStringFlag returns the non-empty value, preferring short flag over long flag
func resolveStringFlag(shortVal, longVal string) string {
	if shortVal != "" {
		return shortVal
	}
	return longVal
}

func printUsage() {
	fmt.Println("restforge - LLM-backed REST test suite generation")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  restforge [flags] \"prompt\"")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  restforge \"Generate assertions for GET /pets\"   # One-shot generation")
	fmt.Println("  restforge -b openai \"...\"                       # Use the OpenAI backend")
	fmt.Println("  restforge -m llama-3.1-8b-instant \"...\"         # Override the model")
	fmt.Println("  restforge -system \"You write REST-assured tests\" \"...\"")
	fmt.Println("  restforge -providers                            # List available providers")
	fmt.Println("  restforge -clear-cache                          # Drop all cached responses")
	fmt.Println()
	flag.PrintDefaults()
}

func main() {
	ctx := context.Background()

	var backend = flag.String("b", "", "LLM provider (groq, openai, anthropic, gemini, custom, or ollama)")
	var backendLong = flag.String("backend", "", "LLM provider (groq, openai, anthropic, gemini, custom, or ollama)")
	var model = flag.String("m", "", "Model name to use")
	var modelLong = flag.String("model", "", "Model name to use")
	var systemPrompt = flag.String("system", "", "System prompt")
	var maxTokens = flag.Int("max-tokens", 0, "Maximum output tokens (0 = default)")
	var temperature = flag.Float64("t", -1, "Sampling temperature (default: provider-neutral 0.2)")
	var settingsPath = flag.String("settings", "", "Path to settings file (JSON or YAML)")
	var noCache = flag.Bool("no-cache", false, "Disable the response cache for this run")
	var listProviders = flag.Bool("providers", false, "List available providers and exit")
	var clearCache = flag.Bool("clear-cache", false, "Clear the response cache and exit")
	var verbose = flag.Bool("v", false, "Enable verbose logging (debug level)")
	var verboseLong = flag.Bool("verbose", false, "Enable verbose logging (debug level)")
	var help = flag.Bool("h", false, "Show usage")
	flag.Parse()

	if *help {
		printUsage()
		return
	}

	if *verbose || *verboseLong {
		pkgLogger.SetGlobalLogLevel(pkgLogger.LogLevelDebug)
	}
	logger := pkgLogger.NewComponentLogger("cli")

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		logger.Error("failed to load settings", "error", err)
		os.Exit(1)
	}

	if *verbose || *verboseLong {
		settings.Log.Level = "debug"
	}
	pkgLogger.SetGlobalLogLevel(pkgLogger.LogLevel(settings.Log.Level))

	if b := resolveStringFlag(*backend, *backendLong); b != "" {
		settings.LLM.Provider = b
	}
	if m := resolveStringFlag(*model, *modelLong); m != "" {
		settings.LLM.Model = m
	}
	if *maxTokens > 0 {
		settings.LLM.MaxTokens = *maxTokens
	}
	if *noCache {
		settings.LLM.CacheEnabled = false
	}
	settings.LLM.Enabled = true // the CLI exists to call the router

	rt, err := client.NewRouter(settings.LLM)
	if err != nil {
		logger.Error("failed to configure LLM router", "error", err)
		os.Exit(1)
	}

	if *clearCache {
		if err := rt.ClearCache(); err != nil {
			logger.Error("failed to clear cache", "error", err)
			os.Exit(1)
		}
		fmt.Println("Cache cleared.")
		return
	}

	if *listProviders {
		names := rt.AvailableProviders(ctx)
		if len(names) == 0 {
			fmt.Println("No providers available. Check credentials and local backends.")
			return
		}
		fmt.Println("Available providers:")
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
		return
	}

	prompt := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if prompt == "" {
		printUsage()
		os.Exit(1)
	}

	req := &llm.Request{
		Prompt:       prompt,
		SystemPrompt: *systemPrompt,
		MaxTokens:    settings.LLM.MaxTokens,
	}
	if *temperature >= 0 {
		req.Temperature = temperature
	}

	resp, err := rt.Generate(ctx, req)
	if err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}

	fmt.Println(resp.Content)
	logger.Debug("generation finished",
		"provider", resp.Provider,
		"cached", resp.Cached,
		"tokens", resp.TokensUsed)
}
