package query

import (
	"testing"
	"time"

	"github.com/asaidimu/go-facets/core/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternBuilder(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		pb := NewPatternBuilder(schema.FieldTypeUnsigned)
		assert.Nil(t, pb.Build())
		assert.Equal(t, "", pb.String())
	})

	t.Run("numeric bounds", func(t *testing.T) {
		pb := NewPatternBuilder(schema.FieldTypeUnsigned).Gt(500).Lt(uint64(1000))
		assert.Equal(t, ">500,<1000", pb.String())

		f := pb.Build()
		require.NotNil(t, f.Group)
		assert.Equal(t, schema.LogicalAnd, f.Group.Operator)
		assert.Equal(t, Parse(schema.FieldTypeUnsigned, pb.String()), f)
	})

	t.Run("range and inclusive bounds", func(t *testing.T) {
		assert.Equal(t, "10><20", NewPatternBuilder(schema.FieldTypeInteger).Between(10, int64(20)).String())
		assert.Equal(t, ">=-3,<=3", NewPatternBuilder(schema.FieldTypeInteger).Gte(-3).Lte(3).String())
	})

	t.Run("text prefixes", func(t *testing.T) {
		pb := NewPatternBuilder(schema.FieldTypeString).Prefix("AB").Prefix("SE")
		assert.Equal(t, "AB,SE", pb.String())
		assert.Equal(t, schema.LogicalOr, pb.Build().Group.Operator)
	})

	t.Run("dates", func(t *testing.T) {
		from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)

		pb := NewPatternBuilder(schema.FieldTypeDate).Between(from, schema.Date(to))
		assert.Equal(t, "1/1/2026><3/15/2026", pb.String())

		iso := NewPatternBuilder(schema.FieldTypeDate).WithDateFormat("2006-01-02").Gte(from)
		assert.Equal(t, ">=2026-01-01", iso.String())
	})

	t.Run("clone and reset", func(t *testing.T) {
		base := NewPatternBuilder(schema.FieldTypeUnsigned).Gt(1)
		clone := base.Clone().Lt(9)
		assert.Equal(t, ">1", base.String())
		assert.Equal(t, ">1,<9", clone.String())

		base.Reset()
		assert.Nil(t, base.Build())
		assert.Equal(t, ">1,<9", clone.String())
	})

	t.Run("built filter is detached", func(t *testing.T) {
		pb := NewPatternBuilder(schema.FieldTypeUnsigned).Gt(1)
		f := pb.Build()
		pb.Lt(5)
		assert.Len(t, f.Group.Conditions, 1)
	})
}
