package obras

import (
	"errors"
	"testing"

	"github.com/woozymasta/obrasmap/internal/geo"

	. "gopkg.in/check.v1"
)

// Hook up gocheck into the "go test" runner.
func Test(t *testing.T) { TestingT(t) }

type ObrasSuite struct {
	features []Feature
}

var _ = Suite(&ObrasSuite{})

func (s *ObrasSuite) SetUpTest(c *C) {
	s.features = []Feature{
		{ID: 1, Locality: "28 de Noviembre", Name: "ESCUELA EIPE", Type: "Educación", Organism: "IDUV", Point: geo.LatLng{Lat: -51.58, Lng: -72.20}},
		{ID: 3, Locality: "Caleta Olivia", Name: "Planta de tratamientos", Type: "Infraestructura/Servicios", Organism: "SPSE", Point: geo.LatLng{Lat: -46.43, Lng: -67.54}},
		{ID: 46, Locality: "Río Gallegos", Name: "Sala inmersiva", Type: "Otros", Organism: "IDUV", Status: "En ejecución", Point: geo.LatLng{Lat: -51.62, Lng: -69.22}},
		{ID: 47, Locality: "Río Gallegos", Name: "Escuela 12", Type: "Educación", Organism: NoData, Point: geo.LatLng{Lat: -51.63, Lng: -69.21}},
	}
}

func (s *ObrasSuite) TestWildcardReturnsEverythingInOrder(c *C) {
	out := FilterFeatures(s.features, Filter{})
	c.Assert(out, DeepEquals, s.features)

	out = FilterFeatures(s.features, Filter{Locality: All, Organism: All, Type: All})
	c.Assert(out, DeepEquals, s.features)
}

func (s *ObrasSuite) TestSearchIsCaseInsensitiveSubstring(c *C) {
	out := FilterFeatures(s.features, Filter{Search: "eipe"})
	c.Assert(out, HasLen, 1)
	c.Assert(out[0].ID, Equals, 1)

	out = FilterFeatures(s.features, Filter{Search: "ESCUELA"})
	c.Assert(out, HasLen, 2)
	c.Assert(out[0].ID, Equals, 1)
	c.Assert(out[1].ID, Equals, 47)
}

func (s *ObrasSuite) TestConjunction(c *C) {
	out := FilterFeatures(s.features, Filter{Locality: "Río Gallegos", Type: "Educación"})
	c.Assert(out, HasLen, 1)
	c.Assert(out[0].ID, Equals, 47)

	out = FilterFeatures(s.features, Filter{Locality: "Río Gallegos", Organism: "SPSE"})
	c.Assert(out, HasLen, 0)
	c.Assert(out, NotNil)
}

func (s *ObrasSuite) TestCategoricalMatchIsCaseSensitive(c *C) {
	out := FilterFeatures(s.features, Filter{Organism: "iduv"})
	c.Assert(out, HasLen, 0)
}

func (s *ObrasSuite) TestFilterIsIdempotent(c *C) {
	f := Filter{Organism: "IDUV", Search: "a"}
	once := FilterFeatures(s.features, f)
	twice := FilterFeatures(once, f)
	c.Assert(twice, DeepEquals, once)
}

func (s *ObrasSuite) TestFilterDoesNotMutateInput(c *C) {
	before := append([]Feature(nil), s.features...)
	_ = FilterFeatures(s.features, Filter{Type: "Otros"})
	c.Assert(s.features, DeepEquals, before)
}

func (s *ObrasSuite) TestMatches(c *C) {
	c.Assert(Filter{Search: "SALA"}.Matches(s.features[2]), Equals, true)
	c.Assert(Filter{Search: "sala", Type: "Educación"}.Matches(s.features[2]), Equals, false)
	c.Assert(Filter{}.IsZero(), Equals, true)
	c.Assert(Filter{Search: "x"}.IsZero(), Equals, false)
}

func (s *ObrasSuite) TestDeriveFacets(c *C) {
	facets := DeriveFacets(s.features, NoData)

	c.Assert(facets.Organisms, DeepEquals, []string{"IDUV", "SPSE"})
	c.Assert(facets.Localities, DeepEquals, []string{"28 de Noviembre", "Caleta Olivia", "Río Gallegos"})
	c.Assert(facets.Types, DeepEquals, []string{"Educación", "Infraestructura/Servicios", "Otros"})

	// re-running yields the same result
	c.Assert(DeriveFacets(s.features, NoData), DeepEquals, facets)
}

func (s *ObrasSuite) TestDeriveFacetsExcludesEmpty(c *C) {
	facets := DeriveFacets([]Feature{{Organism: ""}, {Organism: "IDUV"}}, NoData)
	c.Assert(facets.Organisms, DeepEquals, []string{"IDUV"})
	c.Assert(facets.Types, DeepEquals, []string{})
}

func (s *ObrasSuite) TestOptions(c *C) {
	opts := Options([]string{"IDUV", "SPSE"}, "Todos")
	c.Assert(opts, DeepEquals, []Option{
		{Value: All, Label: "Todos"},
		{Value: "IDUV", Label: "IDUV"},
		{Value: "SPSE", Label: "SPSE"},
	})

	c.Assert(Options(nil, "")[0], Equals, Option{Value: All, Label: All})
}

func (s *ObrasSuite) TestFromCollection(c *C) {
	fc, err := geo.Decode([]byte(`{
	  "type": "FeatureCollection",
	  "features": [
	    {"type": "Feature", "properties": {"id": 7, "localidad": "Pico Truncado", "nombre": "Hospital", "tipo": "Salud", "organismo": "IDUV"},
	     "geometry": {"type": "Point", "coordinates": [-67.97, -46.79]}},
	    {"type": "Feature", "properties": {"id": "8", "locality": "Perito Moreno", "name": "Plaza", "type": "Otros", "organism": "SPSE", "status": "Finalizada"},
	     "geometry": {"type": "MultiPoint", "coordinates": [[-70.92, -46.59], [-71.00, -46.60]]}},
	    {"type": "Feature", "properties": {"id": 9, "nombre": "Sin punto"},
	     "geometry": {"type": "MultiPoint", "coordinates": []}}
	  ]
	}`))
	c.Assert(err, IsNil)

	features, skipped := FromCollection(fc)
	c.Assert(skipped, Equals, 1)
	c.Assert(features, HasLen, 2)

	c.Assert(features[0], DeepEquals, Feature{
		ID: 7, Locality: "Pico Truncado", Name: "Hospital", Type: "Salud", Organism: "IDUV",
		Point: geo.LatLng{Lat: -46.79, Lng: -67.97},
	})
	c.Assert(features[1].ID, Equals, 8)
	c.Assert(features[1].Locality, Equals, "Perito Moreno")
	c.Assert(features[1].Status, Equals, "Finalizada")
	c.Assert(features[1].Point, Equals, geo.LatLng{Lat: -46.59, Lng: -70.92})

	c.Assert(features[0].StatusOr(DefaultStatus), Equals, DefaultStatus)
	c.Assert(features[1].StatusOr(DefaultStatus), Equals, "Finalizada")
}

func (s *ObrasSuite) TestToCollection(c *C) {
	fc := ToCollection(s.features[2:3])
	c.Assert(fc.Features, HasLen, 1)
	c.Assert(fc.Features[0].Properties["nombre"], Equals, "Sala inmersiva")
	c.Assert(fc.Features[0].Properties["estado"], Equals, "En ejecución")

	back, _ := FromCollection(fc)
	c.Assert(back[0].Point, Equals, s.features[2].Point)
}

func (s *ObrasSuite) TestStore(c *C) {
	st := NewStore()
	features, loaded := st.Features()
	c.Assert(loaded, Equals, false)
	c.Assert(features, IsNil)

	st.Fail(errors.New("boom"))
	_, loaded = st.Features()
	c.Assert(loaded, Equals, false)
	c.Assert(st.Err(), ErrorMatches, "boom")

	st.Set(s.features)
	features, loaded = st.Features()
	c.Assert(loaded, Equals, true)
	c.Assert(features, HasLen, 4)
	c.Assert(st.Err(), IsNil)
	c.Assert(st.LoadedAt().IsZero(), Equals, false)
}
