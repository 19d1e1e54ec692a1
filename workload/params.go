package workload

import (
	"strconv"
	"strings"

	"github.com/magiconair/properties"
	"github.com/pingcap/errors"
)

// NewParams merges a comma-separated "key=value" override string over the
// family's default parameter map.
func NewParams(defaults map[string]string, overrides string) (*properties.Properties, error) {
	p := properties.NewProperties()
	for k, v := range defaults {
		if _, _, err := p.Set(k, v); err != nil {
			return nil, errors.Trace(err)
		}
	}
	if overrides == "" {
		return p, nil
	}
	for _, kv := range strings.Split(overrides, ",") {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, errors.Errorf("malformed workload param %q", kv)
		}
		key := strings.TrimSpace(parts[0])
		if _, ok := defaults[key]; !ok {
			return nil, errors.Errorf("unknown workload param %q", key)
		}
		if _, _, err := p.Set(key, strings.TrimSpace(parts[1])); err != nil {
			return nil, errors.Trace(err)
		}
	}
	return p, nil
}

// ParseIntList splits a colon-separated integer list, the shape of txn-mix
// and sunflower region parameters.
func ParseIntList(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ":")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Annotatef(err, "parse %q", s)
		}
		out = append(out, v)
	}
	return out, nil
}
