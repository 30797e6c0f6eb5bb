package ruleset

// dealer tracks rule tags referenced while compiling a rule file against
// tags actually registered, surfacing dangling references at the end.
type dealer struct {
	needs map[string]struct{}
	done  map[string]struct{}
}

func (d *dealer) Next() (tag string, ok bool) {
	for tag := range d.needs {
		delete(d.needs, tag)

		if _, exists := d.done[tag]; !exists {
			return tag, true
		}
	}

	return "", false
}

func (d *dealer) Needs(tag string) {
	if d.needs == nil {
		d.needs = make(map[string]struct{})
	}

	if _, exists := d.done[tag]; !exists {
		d.needs[tag] = struct{}{}
	}
}

func (d *dealer) Done(tag string) {
	if d.done == nil {
		d.done = make(map[string]struct{})
	}

	delete(d.needs, tag)
	d.done[tag] = struct{}{}
}
