package probe

import (
	"strings"
	"testing"
)

const wfs10Capabilities = `<?xml version="1.0" encoding="UTF-8"?>
<WFS_Capabilities xmlns="http://www.opengis.net/wfs" version="1.0.0">
  <Service>
    <Title>Cities WFS</Title>
    <Abstract>City features for testing.</Abstract>
  </Service>
</WFS_Capabilities>`

func TestCompile_Kinds(t *testing.T) {
	eng := New()

	tests := []struct {
		name string
		text string
		want Kind
	}{
		{name: "boolean wrapper", text: "boolean(/*[local-name() = 'WFS_Capabilities'])", want: KindBoolean},
		{name: "nodeset path", text: "/*/*[local-name() = 'Service'][1]/*[local-name() = 'Title'][1]/text()", want: KindNodeset},
		{name: "count is number", text: "count(/*)", want: KindNumber},
		{name: "string function", text: "string(/*/@version)", want: KindString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, err := eng.Compile(tt.text)
			if err != nil {
				t.Fatalf("Compile() error = %v, want nil", err)
			}
			if x.Kind() != tt.want {
				t.Errorf("Kind() = %v, want %v", x.Kind(), tt.want)
			}
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	eng := New()
	if _, err := eng.Compile("boolean(/*[local-name() = "); err == nil {
		t.Errorf("Compile() with malformed text error = nil, want error")
	}
	if _, err := eng.Compile("   "); err == nil {
		t.Errorf("Compile() with empty text error = nil, want error")
	}
}

func TestProbe_BoolAndStrings(t *testing.T) {
	eng := New()
	detection, err := eng.Compile("boolean(/*[local-name() = 'WFS_Capabilities' and " +
		"namespace-uri() = 'http://www.opengis.net/wfs' and @version='1.0.0'])")
	if err != nil {
		t.Fatalf("Compile(detection) error = %v, want nil", err)
	}
	title, err := eng.Compile("/*/*[local-name() = 'ServiceIdentification' or local-name() = 'Service' ][1]/*[local-name() = 'Title'][1]/text()")
	if err != nil {
		t.Fatalf("Compile(title) error = %v, want nil", err)
	}

	rs, err := eng.Probe(strings.NewReader(wfs10Capabilities))
	if err != nil {
		t.Fatalf("Probe() error = %v, want nil", err)
	}

	ok, err := rs.Bool(detection)
	if err != nil {
		t.Fatalf("Bool() error = %v, want nil", err)
	}
	if !ok {
		t.Errorf("Bool(detection) = false, want true")
	}

	vals, err := rs.Strings(title)
	if err != nil {
		t.Fatalf("Strings() error = %v, want nil", err)
	}
	if len(vals) == 0 || vals[0] != "Cities WFS" {
		t.Errorf("Strings(title) = %v, want [Cities WFS]", vals)
	}
}

func TestProbe_WrongShapeErrors(t *testing.T) {
	eng := New()
	nodeset, err := eng.Compile("/*")
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}
	boolean, err := eng.Compile("boolean(/*)")
	if err != nil {
		t.Fatalf("Compile() error = %v, want nil", err)
	}

	rs, err := eng.Probe(strings.NewReader("<a><b/></a>"))
	if err != nil {
		t.Fatalf("Probe() error = %v, want nil", err)
	}

	if _, err := rs.Bool(nodeset); err == nil {
		t.Errorf("Bool(nodeset expr) error = nil, want error")
	}
	if _, err := rs.Strings(boolean); err == nil {
		t.Errorf("Strings(boolean expr) error = nil, want error")
	}
}

func TestProbe_MalformedDocument(t *testing.T) {
	eng := New()
	if _, err := eng.Probe(strings.NewReader("not xml at all <<<")); err == nil {
		t.Errorf("Probe() with malformed input error = nil, want error")
	}
	if _, err := eng.Probe(strings.NewReader("")); err == nil {
		t.Errorf("Probe() with empty input error = nil, want error")
	}
}
