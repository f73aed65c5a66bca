package engine

// Reason explains why a run ended
type Reason string

const (
	ReasonNone      Reason = ""
	ReasonDestroyed Reason = "destroyed"
	ReasonBorder    Reason = "border"
	ReasonQuit      Reason = "quit"
)

// Mission tracks the delivery objective and the terminal state. HasItem
// and Complete only ever go from false to true.
type Mission struct {
	HasItem  bool
	Complete bool
	GameOver bool
	Reason   Reason
}
