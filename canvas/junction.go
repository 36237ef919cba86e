package canvas

// CharacterMerger decides what a cell shows when two characters are drawn
// on it.
type CharacterMerger struct {
	mergeMap map[mergePair]rune
}

type mergePair struct {
	existing rune
	new      rune
}

// NewCharacterMerger creates a merger with the box-drawing merge rules.
func NewCharacterMerger() *CharacterMerger {
	m := &CharacterMerger{mergeMap: make(map[mergePair]rune)}
	m.initializeMergeRules()
	return m
}

// Merge combines two characters. Arrows always win; unknown pairs keep the
// existing character.
func (m *CharacterMerger) Merge(existing, new rune) rune {
	if existing == ' ' || existing == 0 {
		return new
	}
	if existing == new {
		return existing
	}
	if isArrow(existing) {
		return existing
	}
	if isArrow(new) {
		return new
	}
	if merged, ok := m.mergeMap[mergePair{existing, new}]; ok {
		return merged
	}
	if merged, ok := m.mergeMap[mergePair{new, existing}]; ok {
		return merged
	}
	return existing
}

func isArrow(r rune) bool {
	switch r {
	case '▼', '▲', '▶', '◀':
		return true
	}
	return false
}

func (m *CharacterMerger) initializeMergeRules() {
	m.mergeMap[mergePair{'─', '│'}] = '┼'

	// Box borders crossed by a connector become tees.
	m.mergeMap[mergePair{'┌', '─'}] = '┬'
	m.mergeMap[mergePair{'┌', '│'}] = '├'
	m.mergeMap[mergePair{'┐', '─'}] = '┬'
	m.mergeMap[mergePair{'┐', '│'}] = '┤'
	m.mergeMap[mergePair{'└', '─'}] = '┴'
	m.mergeMap[mergePair{'└', '│'}] = '├'
	m.mergeMap[mergePair{'┘', '─'}] = '┴'
	m.mergeMap[mergePair{'┘', '│'}] = '┤'
	m.mergeMap[mergePair{'┬', '│'}] = '┼'
	m.mergeMap[mergePair{'┴', '│'}] = '┼'
	m.mergeMap[mergePair{'├', '─'}] = '┼'
	m.mergeMap[mergePair{'┤', '─'}] = '┼'

	// Rounded connector corners meeting straight lines.
	m.mergeMap[mergePair{'╭', '─'}] = '┬'
	m.mergeMap[mergePair{'╮', '─'}] = '┬'
	m.mergeMap[mergePair{'╰', '─'}] = '┴'
	m.mergeMap[mergePair{'╯', '─'}] = '┴'
	m.mergeMap[mergePair{'╭', '│'}] = '├'
	m.mergeMap[mergePair{'╰', '│'}] = '├'
	m.mergeMap[mergePair{'╮', '│'}] = '┤'
	m.mergeMap[mergePair{'╯', '│'}] = '┤'

	// Connectors touching gate bars.
	m.mergeMap[mergePair{'═', '│'}] = '╪'
	m.mergeMap[mergePair{'━', '│'}] = '┿'
}
