package match_test

import (
	"context"
	"testing"

	"github.com/campuskit/quad/internal/domain/match"
	"github.com/campuskit/quad/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func baseProfile(id string) model.Profile {
	return model.Profile{
		ID:         id,
		CGPA:       3.6,
		Branch:     "cse",
		Year:       2,
		StudyStyle: model.StyleNightOwl,
		Traits:     []string{"curious", "organized"},
		LookingFor: []string{"study buddy"},
	}
}

func TestRuleEngine_Score(t *testing.T) {
	Convey("Given a rule engine", t, func() {
		engine := match.NewRuleEngine()
		ctx := context.Background()

		Convey("When scoring two nearly identical profiles", func() {
			first := baseProfile("stu-a")
			second := baseProfile("stu-b")

			result, err := engine.Score(ctx, match.Input{First: first, Second: second})

			Convey("Then the score is clamped at 100", func() {
				// 30 + 20 + 15 + 15 + 14 + 10 = 104 before clamping
				So(err, ShouldBeNil)
				So(result.Score, ShouldEqual, 100)
			})

			Convey("And every rubric category contributes a reason", func() {
				So(err, ShouldBeNil)
				So(result.Reasons, ShouldResemble, []string{
					"Similar academic performance",
					"Same branch (cse)",
					"Same year (year 2)",
					"Matching study styles",
					"Shared traits: curious, organized",
					"Both looking for: study buddy",
				})
			})

			Convey("And the pair id is order independent", func() {
				So(err, ShouldBeNil)
				So(result.PairID, ShouldEqual, "stu-a:stu-b")

				swapped, err := engine.Score(ctx, match.Input{First: second, Second: first})
				So(err, ShouldBeNil)
				So(swapped.PairID, ShouldEqual, "stu-a:stu-b")
			})
		})

		Convey("When the profiles share nothing", func() {
			first := model.Profile{ID: "a", CGPA: 4.0, Branch: "cse", Year: 1, StudyStyle: model.StyleEarlyBird}
			second := model.Profile{ID: "b", CGPA: 2.0, Branch: "mech", Year: 4, StudyStyle: model.StyleNightOwl}

			result, err := engine.Score(ctx, match.Input{First: first, Second: second})

			Convey("Then only the cross-branch floor scores", func() {
				So(err, ShouldBeNil)
				So(result.Score, ShouldEqual, 5)
			})

			Convey("And the fallback reason is used", func() {
				So(err, ShouldBeNil)
				So(result.Reasons, ShouldResemble, []string{"Potential match based on campus proximity"})
			})
		})

		Convey("When CGPA gaps cross band thresholds", func() {
			score := func(a, b float64) int {
				result, err := engine.Score(ctx, match.Input{
					First:  model.Profile{ID: "a", CGPA: a, Branch: "cse", Year: 1},
					Second: model.Profile{ID: "b", CGPA: b, Branch: "ece", Year: 3},
				})
				So(err, ShouldBeNil)
				return result.Score
			}

			Convey("Then each band awards its fixed points", func() {
				// Branch floor contributes 5 in all cases.
				So(score(3.0, 3.5), ShouldEqual, 35)  // diff 0.5 -> 30
				So(score(3.0, 4.0), ShouldEqual, 25)  // diff 1.0 -> 20
				So(score(2.5, 4.0), ShouldEqual, 15)  // diff 1.5 -> 10
				So(score(2.0, 4.0), ShouldEqual, 5)   // diff 2.0 -> 0
			})
		})

		Convey("When many traits overlap", func() {
			traits := []string{"curious", "organized", "chill", "competitive", "creative"}
			first := model.Profile{ID: "a", CGPA: 4.0, Branch: "cse", Year: 1, Traits: traits}
			second := model.Profile{ID: "b", CGPA: 2.0, Branch: "mech", Year: 3, Traits: traits}

			result, err := engine.Score(ctx, match.Input{First: first, Second: second})

			Convey("Then trait points are capped", func() {
				// 5 shared traits would be 35; cap holds it at 20, plus branch floor.
				So(err, ShouldBeNil)
				So(result.Score, ShouldEqual, 25)
			})
		})

		Convey("When traits differ only in case and spacing", func() {
			first := model.Profile{ID: "a", CGPA: 4.0, Branch: "cse", Year: 1, Traits: []string{" Curious ", "CHILL"}}
			second := model.Profile{ID: "b", CGPA: 2.0, Branch: "mech", Year: 3, Traits: []string{"curious", "chill"}}

			result, err := engine.Score(ctx, match.Input{First: first, Second: second})

			Convey("Then they still count as shared", func() {
				So(err, ShouldBeNil)
				So(result.Reasons, ShouldContain, "Shared traits: chill, curious")
			})
		})

		Convey("When styles are balanced and night owl", func() {
			first := model.Profile{ID: "a", CGPA: 4.0, Branch: "cse", Year: 1, StudyStyle: model.StyleBalanced}
			second := model.Profile{ID: "b", CGPA: 2.0, Branch: "mech", Year: 3, StudyStyle: model.StyleNightOwl}

			Convey("Then the pairing is complementary in both directions", func() {
				result, err := engine.Score(ctx, match.Input{First: first, Second: second})
				So(err, ShouldBeNil)
				So(result.Reasons, ShouldContain, "Complementary study schedules")

				swapped, err := engine.Score(ctx, match.Input{First: second, Second: first})
				So(err, ShouldBeNil)
				So(swapped.Reasons, ShouldContain, "Complementary study schedules")
			})
		})

		Convey("When years are adjacent", func() {
			first := model.Profile{ID: "a", CGPA: 4.0, Branch: "cse", Year: 2}
			second := model.Profile{ID: "b", CGPA: 2.0, Branch: "mech", Year: 3}

			result, err := engine.Score(ctx, match.Input{First: first, Second: second})

			Convey("Then the adjacency reason appears", func() {
				So(err, ShouldBeNil)
				So(result.Reasons, ShouldContain, "Adjacent years on campus")
			})
		})

		Convey("When the league is derived", func() {
			first := model.Profile{ID: "a", CGPA: 3.7, Branch: "cse", Year: 1}
			second := model.Profile{ID: "b", CGPA: 2.1, Branch: "cse", Year: 1}

			result, err := engine.Score(ctx, match.Input{First: first, Second: second})

			Convey("Then it reflects the first profile's CGPA", func() {
				So(err, ShouldBeNil)
				So(result.League, ShouldEqual, "diamond")
			})
		})

		Convey("When the context is cancelled", func() {
			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			_, err := engine.Score(cancelled, match.Input{First: baseProfile("a"), Second: baseProfile("b")})

			Convey("Then scoring fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestPairKey(t *testing.T) {
	Convey("Given two student ids", t, func() {
		Convey("When building the pair key in either order", func() {
			Convey("Then the key is identical", func() {
				So(match.PairKey("alpha", "beta"), ShouldEqual, "alpha:beta")
				So(match.PairKey("beta", "alpha"), ShouldEqual, "alpha:beta")
			})
		})
	})
}

func TestLeague(t *testing.T) {
	Convey("Given the league bands", t, func() {
		Convey("When bucketing boundary CGPAs", func() {
			Convey("Then each band starts at its threshold", func() {
				So(match.League(4.0), ShouldEqual, "diamond")
				So(match.League(3.5), ShouldEqual, "diamond")
				So(match.League(3.49), ShouldEqual, "platinum")
				So(match.League(3.0), ShouldEqual, "platinum")
				So(match.League(2.5), ShouldEqual, "gold")
				So(match.League(2.0), ShouldEqual, "silver")
				So(match.League(1.99), ShouldEqual, "bronze")
				So(match.League(0), ShouldEqual, "bronze")
			})
		})
	})
}
