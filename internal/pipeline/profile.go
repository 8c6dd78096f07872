package pipeline

// Profile is a set of scheduler hints (§4.B.3): queue, priority, thread
// count, time/memory ceilings, and the account to bill. Any field left at
// its zero value inherits from the pipeline's global Settings.
type Profile struct {
	Queue            string `yaml:"queue,omitempty"`
	Priority         int    `yaml:"priority,omitempty"`
	Threads          int    `yaml:"threads,omitempty" validate:"omitempty,min=1"`
	MaxTime          int    `yaml:"max_time,omitempty" validate:"omitempty,min=0"`
	MaxMemory        int64  `yaml:"max_memory,omitempty" validate:"omitempty,min=0"`
	Account          string `yaml:"account,omitempty"`
	WorkingDirectory string `yaml:"working_directory,omitempty"`
}

// ProfileSpec is a keyed structure mapping tool name to a partial Profile
// override (§6 "Profile spec file"). Unknown keys in the underlying YAML
// document are ignored by the decoder; unspecified Profile fields inherit
// defaults at Resolve time.
type ProfileSpec map[string]Profile

// Resolve merges the pipeline's global Settings, this spec's entry for
// toolName (if any), and an explicit caller override, in that priority
// order: override > spec > global default. Only Threads participates in the
// explicit-override rule named in §4.B.3 ("an explicit caller override for
// threads wins over the spec"); every other field follows the same
// zero-value-inherits-default behavior without a separate override input.
func (s ProfileSpec) Resolve(toolName string, global Settings, threadsOverride int) Profile {
	resolved := Profile{
		Queue:            global.Queue,
		Priority:         global.Priority,
		Threads:          global.Threads,
		MaxTime:          global.MaxTime,
		MaxMemory:        global.MaxMemory,
		Account:          global.Account,
		WorkingDirectory: global.WorkingDirectory,
	}

	if entry, ok := s[toolName]; ok {
		if entry.Queue != "" {
			resolved.Queue = entry.Queue
		}
		if entry.Priority != 0 {
			resolved.Priority = entry.Priority
		}
		if entry.Threads != 0 {
			resolved.Threads = entry.Threads
		}
		if entry.MaxTime != 0 {
			resolved.MaxTime = entry.MaxTime
		}
		if entry.MaxMemory != 0 {
			resolved.MaxMemory = entry.MaxMemory
		}
		if entry.Account != "" {
			resolved.Account = entry.Account
		}
		if entry.WorkingDirectory != "" {
			resolved.WorkingDirectory = entry.WorkingDirectory
		}
	}

	if threadsOverride != 0 {
		resolved.Threads = threadsOverride
	}

	return resolved
}
