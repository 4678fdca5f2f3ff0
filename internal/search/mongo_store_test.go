package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToBSON(t *testing.T) {
	assert.Equal(t, bson.M{}, ToBSON(nil))

	got := ToBSON(Filter{
		Eq(FieldRoadName, "수영로"),
		IntEq(FieldMainNo, 305),
		Prefix(FieldProvince, "부산"),
		Contains(FieldDistrict, "남구", "남"),
	})

	and, ok := got["$and"].(bson.A)
	assert.True(t, ok)
	assert.Len(t, and, 4)
	assert.Equal(t, bson.M{"road_nm": "수영로"}, and[0])
	assert.Equal(t, bson.M{"buld_mainsn": 305}, and[1])
	assert.Equal(t, bson.M{"si_nm": bson.M{"$regex": "^부산.*$"}}, and[2])
	assert.Equal(t, bson.M{"$or": bson.A{
		bson.M{"sgg_nm": bson.M{"$regex": "^.*남구.*$"}},
		bson.M{"sgg_nm": bson.M{"$regex": "^.*남.*$"}},
	}}, and[3])
}

func TestToBSON_IgnoreSpacesAndEmpty(t *testing.T) {
	got := ToBSON(Filter{
		Like(FieldBuildingName, "%a.b%").Compact(),
		{Field: FieldRoadName, Op: OpEqual},
	})
	and := got["$and"].(bson.A)

	expr := and[0].(bson.M)["$expr"].(bson.M)["$regexMatch"].(bson.M)
	assert.Equal(t, `^.*a\.b.*$`, expr["regex"])
	assert.Equal(t, bson.M{"road_nm": bson.M{"$in": bson.A{}}}, and[1])
}
