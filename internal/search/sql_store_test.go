package search

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var masterCols = []string{"id", "mgmt_no", "si_nm", "sgg_nm", "emd_nm", "road_nm", "buld_mainsn", "buld_subsn",
	"buld_nm", "zip_no", "road_full_addr", "jibun_full_addr", "si_nm_eng", "sgg_nm_eng", "road_nm_eng", "road_full_addr_eng"}

func TestBuildWhere(t *testing.T) {
	testCases := []struct {
		name   string
		filter Filter
		where  string
		args   []interface{}
	}{
		{"empty", Filter{}, "", nil},
		{
			"road_and_number",
			Filter{Eq(FieldRoadName, "수영로"), IntEq(FieldMainNo, 305)},
			"road_nm = $1 AND buld_mainsn = $2",
			[]interface{}{"수영로", 305},
		},
		{
			"alternates",
			Filter{Contains(FieldDistrict, "수원시", "수원특례시")},
			`(sgg_nm LIKE $1 ESCAPE '\' OR sgg_nm LIKE $2 ESCAPE '\')`,
			[]interface{}{"%수원시%", "%수원특례시%"},
		},
		{
			"ignore_spaces",
			Filter{Like(FieldBuildingName, "%정답빌딩%").Compact()},
			`REPLACE(buld_nm, ' ', '') LIKE $1 ESCAPE '\'`,
			[]interface{}{"%정답빌딩%"},
		},
		{
			"underscore_escaped",
			Filter{Like(FieldBuildingName, "%a_b%")},
			`buld_nm LIKE $1 ESCAPE '\'`,
			[]interface{}{`%a\_b%`},
		},
		{"no_values", Filter{{Field: FieldRoadName, Op: OpEqual}}, "FALSE", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			where, args := BuildWhere(tc.filter)
			assert.Equal(t, tc.where, where)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestSQLStore_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLStore(db, zap.NewNop())

	mock.ExpectQuery(`SELECT .* FROM address_master WHERE road_nm = \$1 AND buld_mainsn = \$2 ORDER BY id LIMIT \$3`).
		WithArgs("수영로", 305, 10).
		WillReturnRows(sqlmock.NewRows(masterCols).
			AddRow(1, "A3", "부산광역시", "남구", "대연동", "수영로", 305, 0, "", "48513",
				"부산광역시 남구 수영로 305", "부산광역시 남구 대연동 52-1", "", "", "", ""))

	rows, err := store.Find(context.Background(), Filter{Eq(FieldRoadName, "수영로"), IntEq(FieldMainNo, 305)}, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "A3", rows[0].MgmtNo)
	assert.Equal(t, 305, rows[0].MainNo)
	assert.Equal(t, "48513", rows[0].PostalCode)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_FirstNone(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLStore(db, zap.NewNop())

	mock.ExpectQuery(`SELECT .* FROM address_master WHERE buld_nm LIKE \$1 ESCAPE '\\' ORDER BY id LIMIT \$2`).
		WithArgs("%없는빌딩%", 1).
		WillReturnRows(sqlmock.NewRows(masterCols))

	rec, err := store.First(context.Background(), Filter{Contains(FieldBuildingName, "없는빌딩")})
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStore_DetailsAndCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewSQLStore(db, zap.NewNop())

	mock.ExpectQuery(`SELECT mgmt_no, .* FROM address_detail WHERE mgmt_no = \$1`).
		WithArgs("A1").
		WillReturnRows(sqlmock.NewRows([]string{"mgmt_no", "dong", "floor", "ho", "ho_detail", "is_basement", "detail_full"}).
			AddRow("A1", "101", "1", "101", "", false, "101동 1층 101호").
			AddRow("A1", "", "B1", "", "", true, "지하1층"))

	details, err := store.Details(context.Background(), "A1")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.True(t, details[1].IsBasement)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM address_master`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 42, n)

	require.NoError(t, mock.ExpectationsWereMet())
}
