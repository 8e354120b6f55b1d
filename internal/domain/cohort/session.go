package cohort

import "github.com/okian/prospect/internal/domain/model"

type populationKey struct {
	cluster model.ClusterID
	lo, hi  int
}

// Session memoizes ranked populations for the lifetime of one request, so views
// that rate many players of the same cluster score the cohort once. A Session
// must not outlive the request that created it and is not safe for concurrent use.
type Session struct {
	ranker  *Ranker
	players []model.PlayerRecord
	lo, hi  int
	cache   map[populationKey]Population
}

// NewSession creates a request-scoped session over the full dataset.
func (r *Ranker) NewSession(players []model.PlayerRecord, lo, hi int) *Session {
	return &Session{
		ranker:  r,
		players: players,
		lo:      lo,
		hi:      hi,
		cache:   make(map[populationKey]Population),
	}
}

// Rate places the target in the cohort of m's cluster.
func (s *Session) Rate(t Target, m *model.ClusterModel) (model.CohortRating, error) {
	return s.Population(m).Locate(t)
}

// Population returns the ranked cohort for m, building it on first use.
func (s *Session) Population(m *model.ClusterModel) Population {
	key := populationKey{cluster: m.ID, lo: s.lo, hi: s.hi}
	if p, ok := s.cache[key]; ok {
		return p
	}
	p := s.ranker.Build(m, Filter(s.players, m.ID, s.lo, s.hi))
	s.cache[key] = p
	return p
}
