package shell

// Phase is the in-page mode shown under the game route.
type Phase int

const (
	PhaseViewing Phase = iota
	PhaseLobby
	PhasePlaying
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhasePlaying:
		return "playing"
	default:
		return "viewing"
	}
}

// Role is the lobby designation picked on the landing page.
type Role int

const (
	Host Role = iota
	Player
)

func (r Role) String() string {
	if r == Host {
		return "host"
	}
	return "player"
}

// UIState selects which game sub-view renders. Role is only meaningful
// while Phase is PhaseLobby.
type UIState struct {
	Phase Phase
	Role  Role
}

// Viewing is the landing state every shell starts in.
func Viewing() UIState { return UIState{Phase: PhaseViewing} }

// Lobby is the waiting-room state for the given role.
func Lobby(role Role) UIState { return UIState{Phase: PhaseLobby, Role: role} }

// Playing is declared for the waiting-room to game transition. No event
// produces it yet; game-start flow is unimplemented.
func Playing() UIState { return UIState{Phase: PhasePlaying} }
