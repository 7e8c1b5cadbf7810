package lispy

import (
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func Test060SexpToJson(t *testing.T) {

	cv.Convey(`Given a quoted list, SexpToJson should tag the quote and the symbols and keep numbers and booleans plain`, t, func() {
		s, err := SexpToJson(mustParse("'(1 true a)"))
		cv.So(err, cv.ShouldBeNil)
		cv.So(s, cv.ShouldEqual, `{"quote":[1,true,{"symbol":"a"}]}`)
		cv.So(JsonString(MakeInt(-4)), cv.ShouldEqual, "-4")
	})
}

func Test061JsonRoundTrip(t *testing.T) {

	cv.Convey(`Given data and code, JsonToSexp(SexpToJson(x)) should give back an equal expression`, t, func() {
		for _, text := range []string{"'(a (1 2) true -5 ())", "''x", "(add1 (car '(1)))", "17"} {
			x := mustParse(text)
			s, err := SexpToJson(x)
			cv.So(err, cv.ShouldBeNil)
			back, err := JsonToSexp([]byte(s))
			cv.So(err, cv.ShouldBeNil)
			cv.So(Print(back), cv.ShouldEqual, text)
		}
	})

	cv.Convey(`Given a partially applied procedure, its json form should keep the bound arguments and still run`, t, func() {
		rt := NewRuntime()
		inc, err := rt.EvalString("(+ 1)")
		cv.So(err, cv.ShouldBeNil)
		s, err := SexpToJson(inc)
		cv.So(err, cv.ShouldBeNil)
		cv.So(s, cv.ShouldContainSubstring, `"bound":[1]`)

		back, err := JsonToSexp([]byte(s))
		cv.So(err, cv.ShouldBeNil)
		cv.So(back.Kind(), cv.ShouldEqual, KindLambda)
		rt.AddGlobal("inc", back)
		cv.So(evalPrint(rt, "(inc 2)"), cv.ShouldEqual, "3")
	})
}

func Test062JsonRejects(t *testing.T) {

	cv.Convey(`Given json with no expression form, JsonToSexp should fail`, t, func() {
		for _, js := range []string{
			`1.5`,
			`"str"`,
			`{"a":1,"b":2}`,
			`{"nosuchtag":1}`,
			`{"symbol":3}`,
			`{"lambda":{"params":["x"],"bound":[1,2],"body":{"symbol":"x"}}}`,
			`[1,`,
		} {
			_, err := JsonToSexp([]byte(js))
			cv.So(err, cv.ShouldNotBeNil)
		}
	})
}
