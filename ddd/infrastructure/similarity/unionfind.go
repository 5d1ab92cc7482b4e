package similarity

import "sync"

// UnionFind 基于字符串键的并查集，用于多视角分组。
// 代表元取分组内字典序最小的UUID，保证分组ID与合并顺序无关。
type UnionFind struct {
	mu     sync.Mutex
	parent map[string]string
}

// NewUnionFind 创建并查集
func NewUnionFind() *UnionFind {
	return &UnionFind{parent: make(map[string]string)}
}

// Add 加入新元素（自成一组）
func (u *UnionFind) Add(id string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.parent[id]; !ok {
		u.parent[id] = id
	}
}

func (u *UnionFind) find(id string) string {
	root := id
	for u.parent[root] != root {
		root = u.parent[root]
	}
	// 路径压缩
	for u.parent[id] != root {
		id, u.parent[id] = u.parent[id], root
	}
	return root
}

// Find 查找元素的代表元，元素不存在时返回其自身
func (u *UnionFind) Find(id string) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.parent[id]; !ok {
		return id
	}
	return u.find(id)
}

// Union 合并两个元素所在的分组，返回合并后的代表元
func (u *UnionFind) Union(a, b string) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.parent[a]; !ok {
		u.parent[a] = a
	}
	if _, ok := u.parent[b]; !ok {
		u.parent[b] = b
	}
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return ra
	}
	// 字典序最小者作为代表元
	if rb < ra {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	return ra
}

// Members 返回与id同组的全部元素（含自身）
func (u *UnionFind) Members(id string) []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.parent[id]; !ok {
		return []string{id}
	}
	root := u.find(id)
	var members []string
	for k := range u.parent {
		if u.find(k) == root {
			members = append(members, k)
		}
	}
	return members
}
