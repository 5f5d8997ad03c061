package build

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lendfi/lendclient/internal/assembler"
	"github.com/lendfi/lendclient/internal/masm"
)

// CycleError reports a reference cycle between library units. Cycles
// are fatal: a single-pass linker cannot register either side of the
// cycle first.
type CycleError struct {
	Path []string // cycle path through module names: ["a", "b", "a"]
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("library reference cycle: %s", strings.Join(e.Path, " -> "))
}

// DependencyOrder returns the library units in an explicit compile
// order: every unit appears after each sibling it references, with ties
// broken lexically by module name. The order is a pure function of the
// source, so two builds over identical files always compile in the same
// sequence.
func DependencyOrder(units []masm.SourceUnit, namespace string) ([]masm.SourceUnit, error) {
	byName := make(map[string]masm.SourceUnit, len(units))
	for _, unit := range units {
		byName[unit.ModuleName] = unit
	}

	graph := buildReferenceGraph(units, byName, namespace)

	// Reject cycles before attempting to order anything.
	for _, scc := range tarjanSCC(graph) {
		if len(scc) > 1 || (len(scc) == 1 && hasSelfLoop(scc[0], graph)) {
			return nil, &CycleError{Path: reconstructCyclePath(scc, graph)}
		}
	}

	ordered := topoSort(graph)

	out := make([]masm.SourceUnit, len(ordered))
	for i, name := range ordered {
		out[i] = byName[name]
	}
	return out, nil
}

// referenceGraph maps module name -> sibling module names it references.
type referenceGraph map[string][]string

// buildReferenceGraph extracts inter-library references from each
// unit's use. imports and qualified invocation targets. Only references
// that name a sibling unit become edges; kernel modules and anything
// unknown are left for assembly-time resolution to diagnose.
func buildReferenceGraph(units []masm.SourceUnit, byName map[string]masm.SourceUnit, namespace string) referenceGraph {
	graph := make(referenceGraph, len(units))

	for _, unit := range units {
		info := masm.ScanModule(unit.Text)
		deps := make(map[string]struct{})

		for _, imp := range info.Imports {
			if name, ok := siblingRef(imp, byName, namespace); ok && name != unit.ModuleName {
				deps[name] = struct{}{}
			}
		}
		for _, inv := range info.Invokes {
			i := strings.LastIndex(inv.Target, "::")
			if i < 0 {
				continue
			}
			if name, ok := siblingRef(inv.Target[:i], byName, namespace); ok && name != unit.ModuleName {
				deps[name] = struct{}{}
			}
		}

		edges := make([]string, 0, len(deps))
		for name := range deps {
			edges = append(edges, name)
		}
		sort.Strings(edges)
		graph[unit.ModuleName] = edges
	}

	return graph
}

// siblingRef resolves a module reference to a sibling unit name. The
// reference may be fully qualified ("lending::pool"), or a bare module
// name used as an import alias.
func siblingRef(ref string, byName map[string]masm.SourceUnit, namespace string) (string, bool) {
	if assembler.IsKernelModule(ref) {
		return "", false
	}

	name := ref
	if i := strings.LastIndex(ref, "::"); i >= 0 {
		if ref[:i] != namespace {
			return "", false
		}
		name = ref[i+2:]
	}

	_, ok := byName[name]
	return name, ok
}

// topoSort orders the graph so dependencies come first. The graph is
// known to be acyclic at this point; ready nodes are taken smallest
// name first to keep the order deterministic.
func topoSort(graph referenceGraph) []string {
	indegree := make(map[string]int, len(graph))
	dependents := make(map[string][]string, len(graph))
	for node := range graph {
		indegree[node] = len(graph[node])
		for _, dep := range graph[node] {
			dependents[dep] = append(dependents[dep], node)
		}
	}

	var ready []string
	for node, n := range indegree {
		if n == 0 {
			ready = append(ready, node)
		}
	}
	sort.Strings(ready)

	var order []string
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		order = append(order, node)

		var unlocked []string
		for _, dep := range dependents[node] {
			indegree[dep]--
			if indegree[dep] == 0 {
				unlocked = append(unlocked, dep)
			}
		}
		sort.Strings(unlocked)
		ready = mergeSorted(ready, unlocked)
	}

	return order
}

// mergeSorted merges two lexically sorted slices.
func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func hasSelfLoop(node string, graph referenceGraph) bool {
	for _, neighbor := range graph[node] {
		if neighbor == node {
			return true
		}
	}
	return false
}

// tarjanSCC finds strongly connected components using Tarjan's
// algorithm. Single-node SCCs without self-loops are not cycles.
func tarjanSCC(graph referenceGraph) [][]string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range graph[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	// Visit in sorted order so cycle reports are stable.
	nodes := make([]string, 0, len(graph))
	for node := range graph {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)
	for _, node := range nodes {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	return sccs
}

// reconstructCyclePath walks edges inside an SCC until it returns to
// the start node, yielding a readable cycle like ["a", "b", "a"].
func reconstructCyclePath(scc []string, graph referenceGraph) []string {
	if len(scc) == 1 {
		return []string{scc[0], scc[0]}
	}

	sccSet := make(map[string]bool, len(scc))
	for _, node := range scc {
		sccSet[node] = true
	}

	start := scc[0]
	current := start
	path := []string{current}
	visited := make(map[string]bool)

	for {
		visited[current] = true

		var next string
		for _, neighbor := range graph[current] {
			if sccSet[neighbor] && (!visited[neighbor] || neighbor == start) {
				next = neighbor
				break
			}
		}
		if next == "" {
			break
		}

		path = append(path, next)
		if next == start {
			break
		}
		current = next
	}

	return path
}
