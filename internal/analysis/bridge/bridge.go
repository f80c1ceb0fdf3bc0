// Package bridge ships the Python entry point that drives the TradingAgents
// framework for the subprocess backend.
//
// Protocol: the request is one JSON object on stdin
//
//	{"symbol": "NVDA", "date": "2025-07-05", "config": {"deep_think_llm": ...}}
//
// and the response is a JSON object on stdout, either
// {"decision": "BUY", "final_state": {...}} or {"error": "..."}. The bridge
// exits 1 on error. Anything else the framework prints goes to stderr.
package bridge

import _ "embed"

// Script is the bridge source, run with `python3 -c` when no args are configured
//
//go:embed tradingagents_bridge.py
var Script string

// Args returns interpreter arguments that run the embedded bridge
func Args() []string {
	return []string{"-c", Script}
}

