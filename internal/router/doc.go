// Package router answers catalog questions by trying a fixed sequence of
// routes: explicit identifier, ranking, title search, generated query,
// generative fallback and static guidance. The first route that produces a
// result wins. A route that fails or panics is logged, counted and treated
// as inapplicable so the next route runs.
//
// Routing decisions for the deterministic routes are memoized in a decision
// cache; store reads go through a shared data cache. Both caches are built
// by New and live as long as the Router.
package router
