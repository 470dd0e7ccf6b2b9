package ws

import "encoding/json"

// MessageType constants for the WebSocket protocol.
const (
	// Client -> Server
	TypeSetPlayers        = "set_players"
	TypeSetDifficulty     = "set_difficulty"
	TypeStartGame         = "start_game"
	TypeRollDice          = "roll_dice"
	TypeChooseHubCategory = "choose_hub_category"
	TypeResolveEvent      = "resolve_event"
	TypeSubmitAnswer      = "submit_answer"
	TypeUseHint           = "use_hint"
	TypePenaltyRoll       = "penalty_roll"
	TypeNextTurn          = "next_turn"
	TypeToggleEditor      = "toggle_editor"
	TypeToggleStats       = "toggle_stats"
	TypeToggleSettings    = "toggle_settings"
	TypeUpdateQuestions   = "update_questions"
	TypeResetGame         = "reset_game"
	TypePing              = "ping"

	// Server -> Client
	TypeStateUpdate = "state_update"
	TypeRoomUpdate  = "room_update"
	TypeError       = "error"
	TypePong        = "pong"
)

// Message wraps all WebSocket payloads with a type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// Client payloads (incoming)

type SetPlayersPayload struct {
	Count int      `json:"count"`
	Names []string `json:"names"`
	Ages  []int    `json:"ages"`
}

type SetDifficultyPayload struct {
	Difficulty string `json:"difficulty"`
}

type ChooseHubCategoryPayload struct {
	CatIndex int `json:"cat_index"`
}

type ResolveEventPayload struct {
	TargetPlayer *int `json:"target_player,omitempty"`
}

type SubmitAnswerPayload struct {
	Answer string `json:"answer"`
}

type UpdateQuestionsPayload struct {
	Questions json.RawMessage `json:"questions"`
}

// Server payloads (outgoing)

type StateUpdatePayload struct {
	RoomCode string          `json:"room_code"`
	State    json.RawMessage `json:"state"`
}

type RoomUpdatePayload struct {
	RoomCode       string `json:"room_code"`
	Seats          []Seat `json:"seats"`
	SlotsRemaining int    `json:"slots_remaining"`
}

type Seat struct {
	SeatID      string `json:"seat_id"`
	DisplayName string `json:"display_name"`
	IsHost      bool   `json:"is_host"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
