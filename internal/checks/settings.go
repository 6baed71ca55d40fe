package checks

type Settings struct {
	Disabled map[string]bool // UPPER(rule key) -> disabled
}

var csettings = Settings{
	Disabled: map[string]bool{},
}

func SetSettings(s Settings) {
	if s.Disabled == nil {
		s.Disabled = map[string]bool{}
	}
	csettings = s
}
