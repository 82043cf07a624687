package scene

import "testing"

func TestMaterialClassify(t *testing.T) {
	cases := []struct {
		name string
		mat  Material
		want Kind
	}{
		{"diffuse default", Material{}, Diffuse},
		{"mirror", Material{Reflective: true}, Mirror},
		{"dielectric", Material{Reflective: true, Refractive: true}, Dielectric},
		{"refractive alone is not dielectric", Material{Refractive: true}, Diffuse},
		{"emissive overrides reflective", Material{Reflective: true, Refractive: true, Emittance: 5}, Emissive},
		{"emittance alone", Material{Emittance: 1}, Emissive},
	}
	for _, c := range cases {
		m := c.mat
		m.Classify()
		if m.Kind != c.want {
			t.Errorf("%s: got %v want %v", c.name, m.Kind, c.want)
		}
	}
}
