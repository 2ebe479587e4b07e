// Package rank maps accumulated experience to a rank tier and progress
// toward the next tier. Pure lookups over a fixed table, no I/O.
package rank

// Info describes one rank tier. Color and Icon are display attributes passed
// through to clients untouched.
type Info struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	MinXP int    `json:"min_xp"`
	Icon  string `json:"icon"`
}

// Ranks is the tier table, ascending by MinXP.
var Ranks = []Info{
	{Name: "Bronze", Color: "text-amber-700", MinXP: 0, Icon: "🥉"},
	{Name: "Silver", Color: "text-gray-400", MinXP: 300, Icon: "🥈"},
	{Name: "Gold", Color: "text-yellow-500", MinXP: 800, Icon: "🥇"},
	{Name: "Platinum", Color: "text-cyan-400", MinXP: 1500, Icon: "💎"},
	{Name: "Diamond", Color: "text-blue-500", MinXP: 3000, Icon: "💠"},
	{Name: "Heroic", Color: "text-purple-500", MinXP: 5000, Icon: "👑"},
	{Name: "Master", Color: "text-red-500", MinXP: 10000, Icon: "🏆"},
}

// Calculate returns the highest rank whose MinXP is at most xp. Any xp below
// the first threshold, including negative values, maps to the lowest rank.
func Calculate(xp int) Info {
	for i := len(Ranks) - 1; i >= 0; i-- {
		if xp >= Ranks[i].MinXP {
			return Ranks[i]
		}
	}
	return Ranks[0]
}

// Next returns the tier after the current one, or nil at the top rank.
func Next(xp int) *Info {
	current := Calculate(xp)
	for i, r := range Ranks {
		if r.Name == current.Name {
			if i == len(Ranks)-1 {
				return nil
			}
			next := Ranks[i+1]
			return &next
		}
	}
	return nil
}

// Progress returns how far xp has moved through the current rank band as a
// whole percentage clamped to [0,100]. The top rank always reports 100.
func Progress(xp int) int {
	current := Calculate(xp)
	next := Next(xp)
	if next == nil {
		return 100
	}

	gained := xp - current.MinXP
	needed := next.MinXP - current.MinXP
	pct := gained * 100 / needed
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
