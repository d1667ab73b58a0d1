//go:build debug

// Package debug provides a centralized, categorized debug logging system.
// Build with -tags debug to enable logging.
package debug

import (
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
)

// Enabled indicates whether debug logging is active
const Enabled = true

// Category represents a debug logging category
type Category string

const (
	// Core categories
	APP    Category = "APP"    // Orchestration, event loop, activation
	FILTER Category = "FILTER" // Fuzzy scoring and ordering
	STATE  Category = "STATE"  // Selection state transitions
	SOURCE Category = "SOURCE" // Candidate source construction
	STORE  Category = "STORE"  // Usage database
	EXEC   Category = "EXEC"   // Command construction and spawning
	UI     Category = "UI"     // Rendering and input decoding
	HOTKEY Category = "HOTKEY" // Keyboard shortcut matching

	// Detailed subcategories (use sparingly - can be verbose)
	LAYOUT  Category = "LAYOUT"  // Window fitting, logged every frame
	DESKTOP Category = "DESKTOP" // Individual .desktop file parsing
	ICON    Category = "ICON"    // Icon theme lookups
)

var (
	enabledCategories = map[Category]bool{
		APP:    true,
		FILTER: true,
		STATE:  true,
		SOURCE: true,
		STORE:  true,
		EXEC:   true,
		UI:     true,
		HOTKEY: true,
		// Verbose categories disabled by default
		LAYOUT:  false,
		DESKTOP: false,
		ICON:    false,
	}
	categoryMu sync.RWMutex

	logger = log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
)

func init() {
	// Format: QUIVER_DEBUG=APP,FILTER or QUIVER_DEBUG=all or QUIVER_DEBUG=none
	env := os.Getenv("QUIVER_DEBUG")
	if env == "" {
		return
	}

	categoryMu.Lock()
	defer categoryMu.Unlock()

	switch env = strings.ToUpper(env); env {
	case "ALL":
		for cat := range enabledCategories {
			enabledCategories[cat] = true
		}
	case "NONE":
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
	default:
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
		for _, cat := range strings.Split(env, ",") {
			enabledCategories[Category(strings.TrimSpace(cat))] = true
		}
	}
}

// Log logs a debug message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	categoryMu.RLock()
	enabled := enabledCategories[cat]
	categoryMu.RUnlock()

	if !enabled {
		return
	}

	logger.Printf("[%s] %s", cat, fmt.Sprintf(format, args...))
}

// Enable enables a debug category
func Enable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = true
	categoryMu.Unlock()
}

// IsEnabled returns whether a category is enabled
func IsEnabled(cat Category) bool {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	return enabledCategories[cat]
}

// EnableAll enables all debug categories including verbose ones
func EnableAll() {
	categoryMu.Lock()
	for cat := range enabledCategories {
		enabledCategories[cat] = true
	}
	categoryMu.Unlock()
}

// DisableAll disables all debug categories
func DisableAll() {
	categoryMu.Lock()
	for cat := range enabledCategories {
		enabledCategories[cat] = false
	}
	categoryMu.Unlock()
}

// ListEnabled returns the currently enabled categories, sorted by name
func ListEnabled() []Category {
	categoryMu.RLock()
	defer categoryMu.RUnlock()

	var enabled []Category
	for cat, on := range enabledCategories {
		if on {
			enabled = append(enabled, cat)
		}
	}
	sort.Slice(enabled, func(i, j int) bool { return enabled[i] < enabled[j] })
	return enabled
}
