package domain

type PeerFilter func([]PeerView) []PeerView

func FilterPool(src []PeerView, filters ...PeerFilter) []PeerView {
	dst := src
	for _, f := range filters {
		dst = f(dst)
	}
	return dst
}

// FilterIn keeps peers whose id is in ids.
func FilterIn(ids []string) PeerFilter {
	set := idSet(ids)
	return func(peers []PeerView) []PeerView {
		return filter(peers, func(p PeerView) bool {
			_, ok := set[p.ID]
			return ok
		})
	}
}

// FilterNotIn drops peers whose id is in ids.
func FilterNotIn(ids []string) PeerFilter {
	set := idSet(ids)
	return func(peers []PeerView) []PeerView {
		return filter(peers, func(p PeerView) bool {
			_, ok := set[p.ID]
			return !ok
		})
	}
}

// FilterUseful keeps peers offering at least one piece the agent needs.
func FilterUseful(a Agent) PeerFilter {
	return func(peers []PeerView) []PeerView {
		return filter(peers, func(p PeerView) bool {
			return a.UsefulPieces(p) > 0
		})
	}
}

func PeerIDs(peers []PeerView) []string {
	ids := make([]string, 0, len(peers))
	for _, p := range peers {
		ids = append(ids, p.ID)
	}
	return ids
}

func filter(peers []PeerView, filterFunc func(PeerView) bool) []PeerView {
	var res []PeerView
	for _, p := range peers {
		if filterFunc(p) {
			res = append(res, p)
		}
	}
	return res
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
