package plan

import (
	"fmt"
	"strconv"

	"parsegen/internal/diagnostic"
	"parsegen/internal/directive"
	"parsegen/internal/schema"
)

// wildcardPattern is the catch-all selector pattern.
const wildcardPattern = "_"

// buildUnion synthesizes the dispatch table for a union schema. Two modes
// exist and are mutually exclusive:
//
//   - selector mode: every variant carries a selector directive giving its
//     match pattern; dispatch tries concrete patterns first, then the
//     wildcard arm if one exists, otherwise fails as unmatched.
//   - fieldless mode: no variant has fields or a selector directive and the
//     union declares a representation width; the discriminant is decoded
//     from the input and matched against resolved variant values.
func (b *Builder) buildUnion(s *schema.Schema, diags *diagnostic.Diagnostics) (*UnionPlan, error) {
	u := s.Union

	uset, unknown, err := directive.Resolve(u.Attrs)
	if err != nil {
		return nil, wrapDirectiveErr(err, s.Name, "")
	}

	for _, name := range unknown {
		diags.AddWarning("unknown_attribute",
			fmt.Sprintf("attribute %q is not a recognized directive", name), s.Name, "")
	}

	vsets := make([]*directive.Set, len(u.Variants))
	anySelector := false
	allFieldless := true

	for i := range u.Variants {
		v := &u.Variants[i]

		vset, vunknown, err := directive.Resolve(v.Attrs)
		if err != nil {
			return nil, wrapDirectiveErr(err, s.Name, v.Name)
		}

		for _, name := range vunknown {
			diags.AddWarning("unknown_attribute",
				fmt.Sprintf("attribute %q is not a recognized directive", name), s.Name, v.Name)
		}

		vsets[i] = vset

		for _, k := range []directive.Kind{
			directive.KindParse, directive.KindVerify,
			directive.KindCond, directive.KindCount, directive.KindRepr,
		} {
			if vset.Has(k) {
				diags.AddWarning("misplaced_directive",
					fmt.Sprintf("directive %q has no meaning on a variant", k), s.Name, v.Name)
			}
		}

		if vset.Has(directive.KindSelector) {
			anySelector = true
		}

		if len(v.Record.Fields) > 0 {
			allFieldless = false
		}
	}

	hasSelType := uset.Has(directive.KindSelector)
	hasRepr := uset.Has(directive.KindRepr)

	switch {
	case hasRepr && (hasSelType || anySelector):
		return nil, configErr(CodeAmbiguousUnionMode, s.Name, "",
			"representation width and selector dispatch both requested")

	case hasRepr && !allFieldless:
		return nil, configErr(CodeAmbiguousUnionMode, s.Name, "",
			"representation width requested but variants carry fields")

	case hasRepr:
		return b.buildFieldlessUnion(s, uset, diags)

	case allFieldless && !anySelector && !hasSelType:
		return nil, configErr(CodeMissingRepresentation, s.Name, "",
			"fieldless union requires a representation width")

	default:
		return b.buildSelectorUnion(s, uset, vsets, diags)
	}
}

// buildSelectorUnion assembles a selector-mode dispatch table.
func (b *Builder) buildSelectorUnion(
	s *schema.Schema,
	uset *directive.Set,
	vsets []*directive.Set,
	diags *diagnostic.Diagnostics,
) (*UnionPlan, error) {
	u := s.Union

	up := &UnionPlan{
		TypeName: s.Name,
		Arms:     make([]Arm, 0, len(u.Variants)+1),
	}

	if uset.Has(directive.KindSelector) {
		up.SelectorType = uset.Selector
	}

	wildcardIdx := -1
	seenPatterns := make(map[string]bool)

	for i := range u.Variants {
		v := &u.Variants[i]

		if !vsets[i].Has(directive.KindSelector) {
			return nil, configErr(CodeMissingSelector, s.Name, v.Name,
				"variant has no selector directive")
		}

		if len(v.Record.Fields) == 0 {
			// Unit variants only exist in fieldless mode.
			return nil, configErr(CodeAmbiguousUnionMode, s.Name, v.Name,
				"union mixes fielded and fieldless variants")
		}

		pattern := vsets[i].Selector

		if pattern == wildcardPattern {
			if wildcardIdx >= 0 {
				return nil, configErr(CodeDuplicateWildcard, s.Name, v.Name,
					"union already has a wildcard arm")
			}

			wildcardIdx = len(up.Arms)
		} else {
			if err := directive.CheckExpr(pattern); err != nil {
				return nil, configErr(CodeUnsupportedLiteral, s.Name, v.Name, "%v", err)
			}

			if seenPatterns[pattern] {
				diags.AddWarning("shadowed_arm",
					fmt.Sprintf("selector pattern %q already used by an earlier variant", pattern),
					s.Name, v.Name)
			}

			seenPatterns[pattern] = true
		}

		rp, err := b.buildRecord(s.Name, &v.Record, v.Name, diags)
		if err != nil {
			return nil, err
		}

		kind := ArmPattern
		if pattern == wildcardPattern {
			kind = ArmWildcard
		}

		up.Arms = append(up.Arms, Arm{
			Kind:    kind,
			Pattern: pattern,
			Variant: v.Name,
			Record:  rp,
		})
	}

	// The wildcard arm must be tried last: relocate it without disturbing
	// the relative order of the concrete arms.
	if wildcardIdx >= 0 {
		if wildcardIdx != len(up.Arms)-1 {
			wildcard := up.Arms[wildcardIdx]
			up.Arms = append(up.Arms[:wildcardIdx], up.Arms[wildcardIdx+1:]...)
			up.Arms = append(up.Arms, wildcard)

			diags.AddInfo("wildcard_relocated",
				"wildcard arm moved to final dispatch position", s.Name, wildcard.Variant)
		}
	} else {
		// Without a wildcard, dispatch ends in a terminal unmatched-selector
		// failure arm.
		up.Arms = append(up.Arms, Arm{Kind: ArmNoMatch})
	}

	return up, nil
}

// buildFieldlessUnion assembles an integer-discriminant enum dispatch table.
// Discriminant values follow standard enumerator numbering: each variant
// takes its explicit value if declared, otherwise the previous value plus
// one, starting at zero.
func (b *Builder) buildFieldlessUnion(
	s *schema.Schema,
	uset *directive.Set,
	diags *diagnostic.Diagnostics,
) (*UnionPlan, error) {
	u := s.Union

	up := &UnionPlan{
		TypeName:  s.Name,
		Fieldless: true,
		Width:     uset.ReprWidth,
		Signed:    uset.ReprSigned,
		Arms:      make([]Arm, 0, len(u.Variants)),
	}

	next := int64(0)
	seen := make(map[int64]string)

	for i := range u.Variants {
		v := &u.Variants[i]

		if v.Discriminant != nil {
			next = *v.Discriminant
		}

		value := next
		next++

		if prev, dup := seen[value]; dup {
			return nil, configErr(CodeDuplicateDiscriminant, s.Name, v.Name,
				"discriminant %d already used by variant %q", value, prev)
		}

		seen[value] = v.Name

		up.Arms = append(up.Arms, Arm{
			Kind:    ArmPattern,
			Pattern: strconv.FormatInt(value, 10),
			Value:   value,
			Variant: v.Name,
		})
	}

	return up, nil
}
