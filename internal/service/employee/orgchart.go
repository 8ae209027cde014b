package employee

import (
	"slices"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
)

const (
	unvisited = iota
	visiting
	visited
)

// BuildOrgChart arranges employees into reporting trees by manager link.
// Employees whose manager is missing from the list become roots. A
// reporting loop is cut at its member with the smallest ID, who becomes a
// root, and the loop is listed in Cycles.
func BuildOrgChart(employees []employee.Employee, avatarURL func(key string) string) employee.OrgChart {
	byID := make(map[string]employee.Employee, len(employees))
	ids := make([]string, 0, len(employees))
	for _, e := range employees {
		if _, dup := byID[e.ID]; dup {
			continue
		}
		byID[e.ID] = e
		ids = append(ids, e.ID)
	}
	slices.Sort(ids)

	parent := make(map[string]string, len(ids))
	for _, id := range ids {
		e := byID[id]
		if e.ManagerID == nil || *e.ManagerID == id {
			continue
		}
		if _, known := byID[*e.ManagerID]; known {
			parent[id] = *e.ManagerID
		}
	}

	chart := employee.OrgChart{Roots: []*employee.OrgChartNode{}}

	state := make(map[string]int, len(ids))
	for _, id := range ids {
		if state[id] != unvisited {
			continue
		}

		var path []string
		for cur := id; ; {
			state[cur] = visiting
			path = append(path, cur)

			next, ok := parent[cur]
			if !ok || state[next] == visited {
				break
			}
			if state[next] == visiting {
				loop := path[slices.Index(path, next):]
				cut := slices.Min(loop)
				delete(parent, cut)
				chart.Cycles = append(chart.Cycles, rotateTo(loop, cut))
				break
			}
			cur = next
		}
		for _, n := range path {
			state[n] = visited
		}
	}

	children := make(map[string][]string, len(ids))
	var roots []string
	for _, id := range ids {
		if p, ok := parent[id]; ok {
			children[p] = append(children[p], id)
		} else {
			roots = append(roots, id)
		}
	}

	byName := func(a, b string) int {
		if c := strings.Compare(byID[a].Name, byID[b].Name); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	}

	var build func(id string) *employee.OrgChartNode
	build = func(id string) *employee.OrgChartNode {
		e := byID[id]
		node := &employee.OrgChartNode{
			ID:         e.ID,
			Name:       e.Name,
			Role:       e.Role,
			JobTitle:   e.JobTitle,
			Department: e.Department,
			AvatarURL:  employee.NewEmployeeResponse(e).ResolveAvatar(avatarURL).AvatarURL,
			Reports:    []*employee.OrgChartNode{},
		}
		kids := children[id]
		slices.SortFunc(kids, byName)
		for _, kid := range kids {
			node.Reports = append(node.Reports, build(kid))
		}
		return node
	}

	slices.SortFunc(roots, byName)
	for _, id := range roots {
		chart.Roots = append(chart.Roots, build(id))
	}
	return chart
}

// rotateTo returns loop reordered to start at first.
func rotateTo(loop []string, first string) []string {
	i := slices.Index(loop, first)
	out := make([]string, 0, len(loop))
	out = append(out, loop[i:]...)
	return append(out, loop[:i]...)
}
