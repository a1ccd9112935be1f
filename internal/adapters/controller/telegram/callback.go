package telegram

import (
	"MindProfile/internal/domain/schema"
	"MindProfile/internal/domain/service/session"
	"strings"
)

// Callback data layout:
//
//	i:<kind>[:<arg>]   dispatch an intent
//	y:<kind>[:<arg>]   dispatch an intent the user already confirmed
//	n                  confirmation declined, show the current screen
//	noop               decorative button
const (
	prefixIntent  = "i"
	prefixConfirm = "y"
	dataCancel    = "n"
	dataNoop      = "noop"
)

type action int

const (
	actionNoop action = iota
	actionIntent
	actionConfirmed
	actionCancel
)

type callback struct {
	action action
	intent session.Intent
}

func intentData(kind session.Kind, arg ...string) string {
	return encode(prefixIntent, kind, arg...)
}

func confirmData(in session.Intent) string {
	return encode(prefixConfirm, in.Kind, intentArg(in))
}

func encode(prefix string, kind session.Kind, arg ...string) string {
	parts := []string{prefix, string(kind)}
	for _, a := range arg {
		if a != "" {
			parts = append(parts, a)
		}
	}
	return strings.Join(parts, ":")
}

func parseCallback(data string) (callback, bool) {
	switch data {
	case dataNoop:
		return callback{action: actionNoop}, true
	case dataCancel:
		return callback{action: actionCancel}, true
	}

	parts := strings.SplitN(data, ":", 3)
	if len(parts) < 2 {
		return callback{}, false
	}
	var act action
	switch parts[0] {
	case prefixIntent:
		act = actionIntent
	case prefixConfirm:
		act = actionConfirmed
	default:
		return callback{}, false
	}

	in := session.Intent{Kind: session.Kind(parts[1])}
	if !in.Kind.External() {
		return callback{}, false
	}
	if len(parts) == 3 {
		setIntentArg(&in, parts[2])
	}
	return callback{action: act, intent: in}, true
}

func intentArg(in session.Intent) string {
	switch in.Kind {
	case session.SelectHistory, session.DeleteAnswer:
		return in.ID
	case session.SetCustomTheme:
		return string(in.Theme)
	case session.SetProfileTab:
		return string(in.Tab)
	}
	return ""
}

func setIntentArg(in *session.Intent, arg string) {
	switch in.Kind {
	case session.SelectHistory, session.DeleteAnswer:
		in.ID = arg
	case session.SetCustomTheme:
		in.Theme = schema.Theme(arg)
	case session.SetProfileTab:
		in.Tab = schema.ProfileTab(arg)
	}
}
