package abicheck

import (
	"strconv"
	"strings"

	"github.com/wirelayer/abiguard/layout"
)

// Check validates that the layout found in a loaded library can safely back
// the layout the caller's interface expects. It returns nil or an
// *IncompatibilityError holding the complete reachable diff.
//
// The check is not symmetric: Check(a, b) succeeding says nothing about
// Check(b, a). The expected side is the interface baseline, the found side
// is the implementation being validated against it.
func Check(expected, found *layout.TypeLayout) error {
	c := &checker{visited: make(map[pair]struct{})}
	c.checkNode(expected, found)
	if len(c.nodes) == 0 {
		return nil
	}
	return &IncompatibilityError{Expected: expected, Found: found, Nodes: c.nodes}
}

type pair struct {
	expected *layout.TypeLayout
	found    *layout.TypeLayout
}

type checker struct {
	visited map[pair]struct{}
	path    []string
	nodes   []NodeError
}

// job defers recursion into a field's type until the current node's shallow
// errors have been recorded, keeping parent nodes before children in the
// diagnostic.
type job struct {
	name     string
	expected *layout.TypeLayout
	found    *layout.TypeLayout
}

func (c *checker) checkNode(expected, found *layout.TypeLayout) {
	p := pair{expected, found}
	if _, ok := c.visited[p]; ok {
		return
	}
	c.visited[p] = struct{}{}

	var errs []Instability

	if expected.Name() != found.Name() {
		errs = append(errs, Instability{
			Kind:     KindName,
			Expected: expected.FullName(),
			Found:    found.FullName(),
		})
		c.record(expected, errs)
		return
	}

	// Growable shapes may legitimately be larger on the found side.
	growable := isGrowable(expected.Data())
	if expected.Size() > found.Size() || (expected.Size() < found.Size() && !growable) {
		errs = append(errs, Instability{
			Kind:     KindSize,
			Expected: formatSize(expected.Size()),
			Found:    formatSize(found.Size()),
		})
	}
	if expected.Alignment() != found.Alignment() {
		errs = append(errs, Instability{
			Kind:     KindAlignment,
			Expected: formatSize(expected.Alignment()),
			Found:    formatSize(found.Alignment()),
		})
	}
	if !expected.Repr().Equal(found.Repr()) {
		errs = append(errs, Instability{
			Kind:     KindRepr,
			Expected: expected.Repr().String(),
			Found:    found.Repr().String(),
		})
	}

	errs = c.checkGenerics(errs, expected.Generics(), found.Generics())

	var jobs []job
	if expected.Data().Kind() != found.Data().Kind() {
		errs = append(errs, Instability{
			Kind:     KindDataKind,
			Expected: expected.Data().Kind().String(),
			Found:    found.Data().Kind().String(),
		})
	} else {
		errs, jobs = c.checkData(errs, expected.Data(), found.Data())
	}

	if tagErr := expected.Tag().CheckCompatible(found.Tag()); tagErr != nil {
		errs = append(errs, Instability{
			Kind:     KindTag,
			Expected: expected.Tag().String(),
			Found:    found.Tag().String(),
			Err:      tagErr,
		})
	}

	if extra := expected.Extra(); extra != nil {
		if err := extra.CheckCompatibility(expected, found); err != nil {
			errs = append(errs, Instability{Kind: KindExtraChecks, Err: err})
		}
	}

	c.record(expected, errs)

	for _, j := range jobs {
		c.path = append(c.path, j.name)
		c.checkNode(j.expected, j.found)
		c.path = c.path[:len(c.path)-1]
	}
}

func (c *checker) record(expected *layout.TypeLayout, errs []Instability) {
	if len(errs) == 0 {
		return
	}
	path := make([]string, len(c.path))
	copy(path, c.path)
	c.nodes = append(c.nodes, NodeError{
		Path:          path,
		TypeName:      expected.FullName(),
		Instabilities: errs,
	})
}

func (c *checker) checkGenerics(errs []Instability, e, f layout.GenericParams) []Instability {
	if e.TypeParamCount() != f.TypeParamCount() ||
		len(e.ConstParams) != len(f.ConstParams) ||
		e.LifetimeCount() != f.LifetimeCount() {
		errs = append(errs, Instability{
			Kind:     KindGenericParamCount,
			Expected: formatArity(e),
			Found:    formatArity(f),
		})
		return errs
	}
	for i := range e.ConstParams {
		if !e.ConstParams[i].Equal(f.ConstParams[i]) {
			errs = append(errs, Instability{
				Kind:     KindConstParam,
				Expected: e.ConstParams[i].Name + " = " + e.ConstParams[i].Value.String(),
				Found:    f.ConstParams[i].Name + " = " + f.ConstParams[i].Value.String(),
			})
		}
	}
	return errs
}

func (c *checker) checkData(errs []Instability, e, f layout.Data) ([]Instability, []job) {
	switch ed := e.(type) {
	case layout.StructData:
		return c.checkStruct(errs, ed, f.(layout.StructData))
	case layout.EnumData:
		return c.checkEnum(errs, ed, f.(layout.EnumData))
	case layout.UnionData:
		return c.checkFields(errs, "", ed.Fields(), f.(layout.UnionData).Fields(), false)
	case layout.PrimitiveData:
		if fd := f.(layout.PrimitiveData); ed.Prim != fd.Prim {
			errs = append(errs, Instability{
				Kind:     KindDataKind,
				Expected: ed.Prim.String(),
				Found:    fd.Prim.String(),
			})
		}
		return errs, nil
	default:
		// Opaque carries no structure beyond what the node checks
		// already covered.
		return errs, nil
	}
}

func (c *checker) checkStruct(errs []Instability, e, f layout.StructData) ([]Instability, []job) {
	if e.IsPrefix() != f.IsPrefix() {
		errs = append(errs, Instability{
			Kind:     KindExtensibility,
			Expected: formatPrefixness(e),
			Found:    formatPrefixness(f),
		})
		return errs, nil
	}
	if e.IsPrefix() && e.SuffixFrom() != f.SuffixFrom() {
		// The frozen prefix region is frozen; moving the marker is a
		// breaking change in either direction.
		errs = append(errs, Instability{
			Kind:     KindExtensibility,
			Expected: "last guaranteed field at " + strconv.Itoa(e.SuffixFrom()),
			Found:    "last guaranteed field at " + strconv.Itoa(f.SuffixFrom()),
		})
		return errs, nil
	}
	return c.checkFields(errs, "", e.Fields(), f.Fields(), e.IsPrefix())
}

// checkFields compares two declaration-ordered field lists. When growable
// is true the found side may carry extra trailing fields; the expected side
// requiring fields the found side lacks is fatal in every case.
func (c *checker) checkFields(errs []Instability, pathPrefix string, e, f []layout.Field, growable bool) ([]Instability, []job) {
	switch {
	case len(e) > len(f):
		errs = append(errs, Instability{
			Kind:     KindFieldCount,
			Expected: strconv.Itoa(len(e)),
			Found:    strconv.Itoa(len(f)),
		})
		for _, missing := range e[len(f):] {
			errs = append(errs, Instability{
				Kind:     KindUnexpectedField,
				Expected: fieldSignature(missing),
				Found:    "no field",
			})
		}
	case len(e) < len(f) && !growable:
		errs = append(errs, Instability{
			Kind:     KindFieldCount,
			Expected: strconv.Itoa(len(e)),
			Found:    strconv.Itoa(len(f)),
		})
	}

	var jobs []job
	n := min(len(e), len(f))
	for i := 0; i < n; i++ {
		ef, ff := e[i], f[i]
		if ef.Name() != ff.Name() {
			errs = append(errs, Instability{
				Kind:     KindUnexpectedField,
				Expected: fieldSignature(ef),
				Found:    fieldSignature(ff),
			})
			continue
		}
		if ef.Accessor() != ff.Accessor() ||
			ef.AccessorName() != ff.AccessorName() ||
			ef.Conditional() != ff.Conditional() {
			errs = append(errs, Instability{
				Kind:     KindFieldAccessor,
				Expected: accessorSignature(ef),
				Found:    accessorSignature(ff),
			})
		}
		if !lifetimesEqual(ef.Lifetimes(), ff.Lifetimes()) {
			errs = append(errs, Instability{
				Kind:     KindFieldLifetimes,
				Expected: formatLifetimes(ef.Lifetimes()),
				Found:    formatLifetimes(ff.Lifetimes()),
			})
		}
		if ef.Accessor() == layout.AccessorOpaque || ff.Accessor() == layout.AccessorOpaque {
			// Opaque fields bypass structural validation entirely.
			continue
		}
		jobs = append(jobs, job{
			name:     pathPrefix + ef.Name(),
			expected: ef.Layout(),
			found:    ff.Layout(),
		})
	}
	return errs, jobs
}

func (c *checker) checkEnum(errs []Instability, e, f layout.EnumData) ([]Instability, []job) {
	if e.Discr() != f.Discr() {
		errs = append(errs, Instability{
			Kind:     KindRepr,
			Expected: "discriminant " + e.Discr().String(),
			Found:    "discriminant " + f.Discr().String(),
		})
	}
	if e.IsExhaustive() != f.IsExhaustive() {
		errs = append(errs, Instability{
			Kind:     KindExtensibility,
			Expected: formatExhaustiveness(e),
			Found:    formatExhaustiveness(f),
		})
		return errs, nil
	}

	ev, fv := e.Variants(), f.Variants()
	if len(ev) > len(fv) || (len(ev) < len(fv) && e.IsExhaustive()) {
		errs = append(errs, Instability{
			Kind:     KindTooManyVariants,
			Expected: strconv.Itoa(len(ev)),
			Found:    strconv.Itoa(len(fv)),
		})
		for i := len(fv); i < len(ev); i++ {
			errs = append(errs, Instability{
				Kind:     KindUnexpectedVariant,
				Expected: ev[i].Name(),
				Found:    "no variant",
			})
		}
	}

	var jobs []job
	n := min(len(ev), len(fv))
	for i := 0; i < n; i++ {
		evi, fvi := ev[i], fv[i]
		if evi.Name() != fvi.Name() {
			errs = append(errs, Instability{
				Kind:     KindUnexpectedVariant,
				Expected: evi.Name(),
				Found:    fvi.Name(),
			})
			continue
		}
		if evi.Discriminant() != fvi.Discriminant() {
			errs = append(errs, Instability{
				Kind:     KindDiscriminant,
				Expected: evi.Name() + " = " + strconv.FormatInt(int64(evi.Discriminant()), 10),
				Found:    fvi.Name() + " = " + strconv.FormatInt(int64(fvi.Discriminant()), 10),
			})
		}
		// Variant field lists are never growable.
		var variantJobs []job
		errs, variantJobs = c.checkFields(errs, evi.Name()+".", evi.Fields(), fvi.Fields(), false)
		jobs = append(jobs, variantJobs...)
	}
	return errs, jobs
}

func isGrowable(d layout.Data) bool {
	switch dd := d.(type) {
	case layout.StructData:
		return dd.IsPrefix()
	case layout.EnumData:
		return !dd.IsExhaustive()
	default:
		return false
	}
}

func lifetimesEqual(a, b []layout.LifetimeIndex) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func fieldSignature(f layout.Field) string {
	return f.Name() + ": " + f.Layout().FullName()
}

func accessorSignature(f layout.Field) string {
	s := f.Accessor().String()
	if f.AccessorName() != "" {
		s += "(" + f.AccessorName() + ")"
	}
	if f.Conditional() {
		s += ", conditional"
	}
	return s
}

func formatLifetimes(set []layout.LifetimeIndex) string {
	if len(set) == 0 {
		return "no lifetimes"
	}
	parts := make([]string, len(set))
	for i, l := range set {
		parts[i] = l.String()
	}
	return strings.Join(parts, ", ")
}

func formatSize(n uintptr) string {
	return strconv.FormatUint(uint64(n), 10)
}

func formatArity(g layout.GenericParams) string {
	return strconv.Itoa(g.TypeParamCount()) + " type / " +
		strconv.Itoa(len(g.ConstParams)) + " const / " +
		strconv.Itoa(g.LifetimeCount()) + " lifetime"
}

func formatPrefixness(d layout.StructData) string {
	if d.IsPrefix() {
		return "prefix struct"
	}
	return "frozen struct"
}

func formatExhaustiveness(d layout.EnumData) string {
	if d.IsExhaustive() {
		return "exhaustive enum"
	}
	return "nonexhaustive enum"
}
