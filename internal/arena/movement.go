package arena

// StepEnemy moves e one tick toward its next waypoint. Enemies within one
// step of the waypoint snap onto it and advance their path index. Enemies
// already at the portal are left untouched.
func StepEnemy(e *Enemy, path Path) {
	if e == nil || e.AtPortal(path) {
		return
	}
	target := path[e.PathIndex+1]
	current := e.Position()
	distance := current.Distance(target)
	if distance <= e.Speed {
		e.X = target.X
		e.Y = target.Y
		e.PathIndex++
		return
	}
	e.X += (target.X - current.X) / distance * e.Speed
	e.Y += (target.Y - current.Y) / distance * e.Speed
}

// MovementResult reports the enemies that survived a movement pass and those
// that breached the portal.
type MovementResult struct {
	Remaining []Enemy
	Breached  []Enemy
}

// Advance runs one movement pass over enemies. An enemy that is at the portal
// when the pass starts breaches and is removed; every other enemy steps
// forward, possibly arriving at the portal and breaching on the next pass.
func Advance(enemies []Enemy, path Path) MovementResult {
	result := MovementResult{Remaining: make([]Enemy, 0, len(enemies))}
	for _, enemy := range enemies {
		if enemy.AtPortal(path) {
			result.Breached = append(result.Breached, enemy)
			continue
		}
		StepEnemy(&enemy, path)
		result.Remaining = append(result.Remaining, enemy)
	}
	return result
}
