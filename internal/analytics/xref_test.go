package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketingflorenza/onlinebornsong/internal/model"
)

func TestFindOriginStage1ByName(t *testing.T) {
	all := []model.Row{
		{CustomerName: "A", Date: datePtr(2024, time.May, 1, 0, 0, 0), P1: 50, Interest: "รองเท้า"},
		{CustomerName: "A", Date: datePtr(2024, time.June, 2, 0, 0, 0), UpP1: 20},
	}

	origin := FindOriginStage1(all[1], all)
	require.NotNil(t, origin)
	assert.InDelta(t, 50, origin.P1, 1e-9)
	assert.Equal(t, "รองเท้า", origin.Interest)
}

func TestFindOriginStage1PhonePrecedence(t *testing.T) {
	// Different names, same phone: the phone match wins.
	all := []model.Row{
		{CustomerName: "นามสกุลเดิม", CustomerPhone: "0810000001", P1: 75},
		{CustomerName: "other", CustomerPhone: "0999999999", P1: 999},
	}
	upgrade := model.Row{CustomerName: "ชื่อใหม่", CustomerPhone: "0810000001", UpP1: 30}

	origin := FindOriginStage1(upgrade, all)
	require.NotNil(t, origin)
	assert.InDelta(t, 75, origin.P1, 1e-9)
}

func TestFindOriginStage1FirstInLedgerOrder(t *testing.T) {
	// Two candidate origins: the first in insertion order wins even though
	// the second is nearer in time.
	all := []model.Row{
		{CustomerName: "A", Date: datePtr(2024, time.January, 1, 0, 0, 0), P1: 10},
		{CustomerName: "A", Date: datePtr(2024, time.June, 1, 0, 0, 0), P1: 20},
	}
	upgrade := model.Row{CustomerName: "A", Date: datePtr(2024, time.June, 2, 0, 0, 0), UpP1: 5}

	origin := FindOriginStage1(upgrade, all)
	require.NotNil(t, origin)
	assert.InDelta(t, 10, origin.P1, 1e-9)
}

func TestFindOriginStage1NotFound(t *testing.T) {
	all := []model.Row{
		{CustomerName: "someone else", P1: 100},
		{CustomerName: "A", P2: "lead only"},
	}
	upgrade := model.Row{CustomerName: "A", UpP1: 30}

	assert.Nil(t, FindOriginStage1(upgrade, all))
}

func TestFindOriginStage1BlankIdentityNeverMatches(t *testing.T) {
	all := []model.Row{
		{P1: 100},
	}
	upgrade := model.Row{UpP1: 30}

	assert.Nil(t, FindOriginStage1(upgrade, all))
}

func TestFindOriginLead(t *testing.T) {
	all := []model.Row{
		{CustomerName: "A", Date: datePtr(2024, time.May, 5, 0, 0, 0), P2: "นัดชม", Interest: "กระเป๋า"},
		{CustomerName: "A", Date: datePtr(2024, time.June, 3, 0, 0, 0), UpP2: 40},
	}

	origin := FindOriginLead(all[1], all)
	require.NotNil(t, origin)
	assert.Equal(t, "กระเป๋า", origin.Interest)
	require.NotNil(t, origin.Date)
	assert.Equal(t, time.May, origin.Date.Month())
}

func TestFindOriginLeadIgnoresRevenueOnlyRows(t *testing.T) {
	all := []model.Row{
		{CustomerName: "A", P1: 100},
	}
	upgrade := model.Row{CustomerName: "A", UpP2: 40}

	assert.Nil(t, FindOriginLead(upgrade, all))
}

func TestBuildCategoryDetail(t *testing.T) {
	lead := model.Row{CustomerName: "C", Date: datePtr(2024, time.May, 1, 0, 0, 0), P2: "สนใจ", Interest: "เดิม"}
	origin := model.Row{CustomerName: "B", Date: datePtr(2024, time.April, 1, 0, 0, 0), P1: 60, Interest: "ต้นทาง"}

	filtered := []model.Row{
		{CustomerName: "A", Date: datePtr(2024, time.June, 1, 0, 0, 0), Categories: []string{"Shoes"}, P1: 100},
		{CustomerName: "B", Date: datePtr(2024, time.June, 2, 0, 0, 0), Categories: []string{"Shoes"}, P1: 80, UpP1: 20},
		{CustomerName: "C", Date: datePtr(2024, time.June, 3, 0, 0, 0), Categories: []string{"Shoes"}, UpP2: 40},
		{CustomerName: "D", Date: datePtr(2024, time.June, 4, 0, 0, 0), Categories: []string{"Bags"}, P1: 999},
	}
	all := append([]model.Row{origin, lead}, filtered...)

	detail := BuildCategoryDetail("Shoes", filtered, all)

	// The same-row upgrade excludes row B from plain P1 bills.
	require.Len(t, detail.P1Bills, 1)
	assert.Equal(t, "A", detail.P1Bills[0].CustomerName)

	require.Len(t, detail.UpP1Bills, 1)
	require.NotNil(t, detail.UpP1Bills[0].Origin)
	assert.Equal(t, "ต้นทาง", detail.UpP1Bills[0].Origin.Interest)

	require.Len(t, detail.UpP2Bills, 1)
	require.NotNil(t, detail.UpP2Bills[0].Origin)
	assert.Equal(t, "เดิม", detail.UpP2Bills[0].Origin.Interest)
}

func TestBuildCategoryDetailUnknownCategory(t *testing.T) {
	filtered := []model.Row{
		{CustomerName: "A", Categories: []string{"Shoes"}, P1: 100},
	}

	detail := BuildCategoryDetail("Hats", filtered, filtered)
	assert.Empty(t, detail.P1Bills)
	assert.Empty(t, detail.UpP1Bills)
	assert.Empty(t, detail.UpP2Bills)
}
