package drift

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hlop3z/sqltable/internal/schema"
)

// fingerprintVersion is bumped whenever rendering changes for unchanged input,
// so cached renders keyed by a fingerprint are not reused.
const fingerprintVersion = "1"

// TableFingerprint returns a deterministic hash of everything in t that can
// affect rendered output. Field order is significant.
func TableFingerprint(t *schema.Table) string {
	fields := make([]string, len(t.Fields))
	for i := range t.Fields {
		fields[i] = fieldFingerprint(&t.Fields[i])
	}

	order := "-"
	if t.OrderBy != nil {
		order = "[" + strings.Join(quoteAll(t.OrderBy), ",") + "]"
	}

	data := fmt.Sprintf("v%s|table:%q|engine:%s|order_by:%s|fields:[%s]",
		fingerprintVersion,
		t.Name,
		t.EngineOrDefault(),
		order,
		strings.Join(fields, ","),
	)
	return HashContent(data)
}

func fieldFingerprint(f *schema.Field) string {
	data := fmt.Sprintf("name:%q|type:%q", f.Name, f.Type)
	if f.Index != nil {
		data += "|index:" + f.Index.String()
	}
	if f.Value != nil {
		data += fmt.Sprintf("|inc:%v|nn:%v", f.Value.IsIncrement(), f.Value.IsNotNull())
		if d, ok := f.Value.DefaultValue(); ok {
			data += "|default:" + strconv.Quote(d)
		}
	}
	return "{" + data + "}"
}

func quoteAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = strconv.Quote(s)
	}
	return out
}
