package yahoojp

// rule は1つの抽出戦略です。name は診断用に結果へ残ります。
type rule[T any] struct {
	name string
	find func(p *page) (T, bool)
}

// firstMatch は規則を順に試し、最初に成功した値と規則名を返します。
func firstMatch[T any](p *page, rules []rule[T]) (T, string, bool) {
	for _, r := range rules {
		if v, ok := r.find(p); ok {
			return v, r.name, true
		}
	}
	var zero T
	return zero, "", false
}
