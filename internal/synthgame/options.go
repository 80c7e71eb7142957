package synthgame

// Option applies a configuration option to the generator.
type Option func(*generator)

// WithSeed fixes the random source. Equal seeds give equal games.
func WithSeed(seed uint64) Option {
	return func(g *generator) {
		g.seed = seed
	}
}

// WithOvertimes adds overtime periods after regulation.
func WithOvertimes(n int) Option {
	return func(g *generator) {
		if n >= 0 {
			g.overtimes = n
		}
	}
}

// WithSubstitutionRate sets the chance of a substitution between
// possessions and, per team, during free throws.
func WithSubstitutionRate(p float64) Option {
	return func(g *generator) {
		if p >= 0 && p <= 1 {
			g.subRate = p
		}
	}
}

// WithTeamRebounds toggles defensive rebounds credited to the team rather
// than a player.
func WithTeamRebounds(enabled bool) Option {
	return func(g *generator) {
		g.teamRebounds = enabled
	}
}
