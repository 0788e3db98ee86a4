package pg

import "time"

// Store bundles the reader, storer and searcher over one pool.
type Store struct {
	*Reader
	*Storer
	*Searcher
}

func NewStore(pool *ConnectionPool) *Store {
	return &Store{
		Reader:   &Reader{db: pool.conn},
		Storer:   &Storer{db: pool.conn, now: time.Now},
		Searcher: NewSearcher(pool),
	}
}
