// Package board builds the fixed 100-space FeatherQuest track: a smooth
// looping path with six category hubs and periodic event spaces.
package board

import "math"

// Size is the number of spaces on the track.
const Size = 100

// NumCategories is the number of question categories (one feather each).
const NumCategories = 6

// EventKind identifies what happens when a player lands on an event space.
type EventKind string

const (
	EventHintGift        EventKind = "hint_gift"
	EventTailwind        EventKind = "tailwind"
	EventShortcut        EventKind = "shortcut"
	EventSwap            EventKind = "swap"
	EventBonusRoll       EventKind = "bonus_roll"
	EventDoubleOrNothing EventKind = "double_or_nothing"
)

// eventCycle is the fixed order event kinds recur in along the track.
var eventCycle = [6]EventKind{
	EventHintGift,
	EventTailwind,
	EventShortcut,
	EventSwap,
	EventBonusRoll,
	EventDoubleOrNothing,
}

// hubPositions places one hub per category, roughly every sixth of the track.
var hubPositions = [NumCategories]int{14, 30, 46, 62, 78, 94}

// Space is a single position on the track. X, Y and Angle exist only so a
// client can draw the board; gameplay depends on the remaining fields.
type Space struct {
	Position      int       `json:"position"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Angle         float64   `json:"angle"`
	CategoryIndex int       `json:"category_index"`
	IsHub         bool      `json:"is_hub"`
	HubIndex      int       `json:"hub_index"` // -1 unless IsHub
	IsEvent       bool      `json:"is_event"`
	EventKind     EventKind `json:"event_kind,omitempty"`
}

// waypoints trace the winding course the track is sampled from. Coordinates
// are in a 1000x700 viewbox; purely a drawing concern.
var waypoints = [][2]float64{
	{60, 620}, {180, 560}, {300, 610}, {430, 570}, {520, 480},
	{470, 370}, {340, 330}, {230, 380}, {120, 320}, {150, 200},
	{280, 140}, {430, 170}, {560, 120}, {700, 160}, {790, 270},
	{740, 390}, {640, 470}, {700, 580}, {830, 620}, {930, 540},
	{950, 400}, {900, 260}, {940, 130},
}

// Generate returns the full track. Deterministic: every call produces an
// identical layout.
func Generate() []Space {
	points := samplePath(Size)

	spaces := make([]Space, Size)
	eventCount := 0
	for pos := 0; pos < Size; pos++ {
		s := Space{
			Position: pos,
			X:        points[pos][0],
			Y:        points[pos][1],
			HubIndex: -1,
		}

		// Angle toward the next space, for token orientation.
		next := points[min(pos+1, Size-1)]
		s.Angle = math.Atan2(next[1]-s.Y, next[0]-s.X)

		if hub, ok := hubAt(pos); ok {
			s.IsHub = true
			s.HubIndex = hub
			s.CategoryIndex = hub
		} else {
			s.CategoryIndex = pos % NumCategories
			if pos > 0 && pos%5 == 0 {
				s.IsEvent = true
				s.EventKind = eventCycle[eventCount%len(eventCycle)]
				eventCount++
			}
		}
		spaces[pos] = s
	}
	return spaces
}

// HubPosition returns the track position of the hub for a category.
func HubPosition(category int) int {
	return hubPositions[category]
}

func hubAt(pos int) (int, bool) {
	for i, p := range hubPositions {
		if p == pos {
			return i, true
		}
	}
	return -1, false
}

// samplePath distributes n points evenly (in parameter space) along a
// Catmull-Rom spline through the waypoints.
func samplePath(n int) [][2]float64 {
	segs := len(waypoints) - 1
	points := make([][2]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1) * float64(segs)
		seg := int(t)
		if seg >= segs {
			seg = segs - 1
		}
		points[i] = catmullRom(
			waypoints[clamp(seg-1, 0, segs)],
			waypoints[seg],
			waypoints[seg+1],
			waypoints[clamp(seg+2, 0, segs)],
			t-float64(seg),
		)
	}
	return points
}

func catmullRom(p0, p1, p2, p3 [2]float64, t float64) [2]float64 {
	t2 := t * t
	t3 := t2 * t
	var out [2]float64
	for i := 0; i < 2; i++ {
		out[i] = 0.5 * ((2 * p1[i]) +
			(-p0[i]+p2[i])*t +
			(2*p0[i]-5*p1[i]+4*p2[i]-p3[i])*t2 +
			(-p0[i]+3*p1[i]-3*p2[i]+p3[i])*t3)
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
