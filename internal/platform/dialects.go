package platform

import "github.com/koba/ddlkit/internal/schema"

func withDefaultSizes(i *Info, size string, codes ...int) {
	for _, code := range codes {
		i.SetDefaultSize(code, size)
	}
}

func newGeneric() *Info {
	i := New("generic")
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar, schema.TypeBinary, schema.TypeVarBinary)
	return i
}

func newAxion() *Info {
	i := New("axion")
	i.AlterColumnSupported = false
	i.AddNativeTypeMapping(schema.TypeArray, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeBit, "BOOLEAN")
	i.AddNativeTypeMapping(schema.TypeDatalink, "VARBINARY", schema.TypeVarBinary)
	i.AddNativeTypeMapping(schema.TypeDecimal, "NUMBER", schema.TypeNumeric)
	i.AddNativeTypeMapping(schema.TypeDistinct, "VARBINARY", schema.TypeVarBinary)
	i.AddNativeTypeMapping(schema.TypeDouble, "FLOAT", schema.TypeFloat)
	i.AddNativeTypeMapping(schema.TypeJavaObject, "VARBINARY", schema.TypeVarBinary)
	i.AddNativeTypeMapping(schema.TypeLongVarChar, "VARCHAR", schema.TypeVarChar)
	i.AddNativeTypeMapping(schema.TypeNull, "VARBINARY", schema.TypeVarBinary)
	i.AddNativeTypeMapping(schema.TypeOther, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeReal, "FLOAT", schema.TypeFloat)
	i.AddNativeTypeMapping(schema.TypeRef, "VARBINARY", schema.TypeVarBinary)
	i.AddNativeTypeMapping(schema.TypeStruct, "VARBINARY", schema.TypeVarBinary)
	i.AddNativeTypeMapping(schema.TypeTinyInt, "SMALLINT", schema.TypeSmallInt)
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar, schema.TypeBinary, schema.TypeVarBinary)
	return i
}

// forBitData registers the DB2 family's binary types, where the size sits
// in the middle of the type name.
func forBitData(i *Info) {
	i.AddNativeTypeMapping(schema.TypeBinary, "CHAR {0} FOR BIT DATA")
	i.AddNativeTypeMapping(schema.TypeVarBinary, "VARCHAR {0} FOR BIT DATA")
	i.AddNativeTypeMapping(schema.TypeLongVarBinary, "LONG VARCHAR FOR BIT DATA")
}

func newDerby(name string) *Info {
	i := New(name)
	i.MaxIdentifierLength = 128
	i.SystemIndexesReturned = true
	i.AddNativeTypeMapping(schema.TypeArray, "BLOB", schema.TypeBlob)
	forBitData(i)
	i.AddNativeTypeMapping(schema.TypeBit, "SMALLINT", schema.TypeSmallInt)
	i.AddNativeTypeMapping(schema.TypeBoolean, "SMALLINT", schema.TypeSmallInt)
	i.AddNativeTypeMapping(schema.TypeDatalink, "LONG VARCHAR FOR BIT DATA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeDistinct, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeFloat, "DOUBLE", schema.TypeDouble)
	i.AddNativeTypeMapping(schema.TypeJavaObject, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeLongVarChar, "LONG VARCHAR")
	i.AddNativeTypeMapping(schema.TypeNull, "LONG VARCHAR FOR BIT DATA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeOther, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeRef, "LONG VARCHAR FOR BIT DATA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeStruct, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeTinyInt, "SMALLINT", schema.TypeSmallInt)
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar, schema.TypeBinary, schema.TypeVarBinary)
	return i
}

func newCloudscape() *Info { return newDerby("cloudscape") }

func newDB2() *Info {
	i := New("db2")
	i.MaxIdentifierLength = 18
	i.SystemIndexesReturned = true
	i.AddNativeTypeMapping(schema.TypeArray, "BLOB", schema.TypeBlob)
	forBitData(i)
	i.AddNativeTypeMapping(schema.TypeBit, "SMALLINT", schema.TypeSmallInt)
	i.AddNativeTypeMapping(schema.TypeBoolean, "SMALLINT", schema.TypeSmallInt)
	i.AddNativeTypeMapping(schema.TypeDistinct, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeFloat, "DOUBLE", schema.TypeDouble)
	i.AddNativeTypeMapping(schema.TypeJavaObject, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeLongVarChar, "LONG VARCHAR")
	i.AddNativeTypeMapping(schema.TypeNull, "LONG VARCHAR FOR BIT DATA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeNumeric, "DECIMAL", schema.TypeDecimal)
	i.AddNativeTypeMapping(schema.TypeOther, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeStruct, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeTinyInt, "SMALLINT", schema.TypeSmallInt)
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar, schema.TypeBinary, schema.TypeVarBinary)
	return i
}

func newInterbase(name string) *Info {
	i := New(name)
	i.MaxIdentifierLength = 31
	i.SystemIndexesReturned = true
	i.AddNativeTypeMapping(schema.TypeArray, "BLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBigInt, "NUMERIC(18,0)")
	i.AddNativeTypeMapping(schema.TypeBinary, "BLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBit, "SMALLINT", schema.TypeSmallInt)
	i.AddNativeTypeMapping(schema.TypeBlob, "BLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBoolean, "SMALLINT", schema.TypeSmallInt)
	i.AddNativeTypeMapping(schema.TypeClob, "BLOB SUB_TYPE TEXT", schema.TypeLongVarChar)
	i.AddNativeTypeMapping(schema.TypeDouble, "DOUBLE PRECISION")
	i.AddNativeTypeMapping(schema.TypeFloat, "DOUBLE PRECISION", schema.TypeDouble)
	i.AddNativeTypeMapping(schema.TypeLongVarBinary, "BLOB")
	i.AddNativeTypeMapping(schema.TypeLongVarChar, "BLOB SUB_TYPE TEXT")
	i.AddNativeTypeMapping(schema.TypeReal, "FLOAT")
	i.AddNativeTypeMapping(schema.TypeTinyInt, "SMALLINT", schema.TypeSmallInt)
	i.AddNativeTypeMapping(schema.TypeVarBinary, "BLOB", schema.TypeLongVarBinary)
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar)
	return i
}

func newFirebird() *Info { return newInterbase("firebird") }

func newHSQLDB() *Info {
	i := New("hsqldb")
	i.SystemIndexesReturned = true
	i.AddNativeTypeMapping(schema.TypeArray, "LONGVARBINARY", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBlob, "LONGVARBINARY", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeClob, "LONGVARCHAR", schema.TypeLongVarChar)
	i.AddNativeTypeMapping(schema.TypeDatalink, "LONGVARBINARY", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeDistinct, "LONGVARBINARY", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeFloat, "DOUBLE", schema.TypeDouble)
	i.AddNativeTypeMapping(schema.TypeJavaObject, "OBJECT")
	i.AddNativeTypeMapping(schema.TypeNull, "LONGVARBINARY", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeRef, "LONGVARBINARY", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeStruct, "LONGVARBINARY", schema.TypeLongVarBinary)
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar, schema.TypeBinary, schema.TypeVarBinary)
	return i
}

func newSapDB(name string) *Info {
	i := New(name)
	i.MaxIdentifierLength = 32
	i.SystemIndexesReturned = true
	i.AddNativeTypeMapping(schema.TypeArray, "LONG BYTE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBigInt, "FIXED(38,0)")
	i.AddNativeTypeMapping(schema.TypeBinary, "LONG BYTE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBit, "BOOLEAN")
	i.AddNativeTypeMapping(schema.TypeBlob, "LONG BYTE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeClob, "LONG", schema.TypeLongVarChar)
	i.AddNativeTypeMapping(schema.TypeDistinct, "LONG BYTE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeDouble, "DOUBLE PRECISION")
	i.AddNativeTypeMapping(schema.TypeFloat, "DOUBLE PRECISION", schema.TypeDouble)
	i.AddNativeTypeMapping(schema.TypeJavaObject, "LONG BYTE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeLongVarBinary, "LONG BYTE")
	i.AddNativeTypeMapping(schema.TypeLongVarChar, "LONG VARCHAR")
	i.AddNativeTypeMapping(schema.TypeNull, "LONG BYTE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeNumeric, "DECIMAL", schema.TypeDecimal)
	i.AddNativeTypeMapping(schema.TypeOther, "LONG BYTE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeRef, "LONG BYTE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeStruct, "LONG BYTE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeTinyInt, "SMALLINT", schema.TypeSmallInt)
	i.AddNativeTypeMapping(schema.TypeVarBinary, "LONG BYTE", schema.TypeLongVarBinary)
	i.AddNativeTypeMappingByName("BOOLEAN", "BOOLEAN", "BIT")
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar)
	return i
}

func newMaxDB() *Info { return newSapDB("maxdb") }

func newMcKoi() *Info {
	i := New("mckoi")
	i.AddNativeTypeMapping(schema.TypeArray, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeBit, "BOOLEAN")
	i.AddNativeTypeMapping(schema.TypeDatalink, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeDistinct, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeNull, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeOther, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeRef, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeStruct, "BLOB", schema.TypeBlob)
	withDefaultSizes(i, "1024", schema.TypeChar, schema.TypeVarChar, schema.TypeBinary, schema.TypeVarBinary)
	return i
}

func newMSSQL() *Info {
	i := New("mssql")
	i.MaxIdentifierLength = 128
	i.SystemIndexesReturned = true
	i.ColumnKeywordInAdd = false
	i.QuoteStart, i.QuoteEnd = "[", "]"
	i.AddNativeTypeMapping(schema.TypeArray, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBlob, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBoolean, "BIT", schema.TypeBit)
	i.AddNativeTypeMapping(schema.TypeClob, "TEXT", schema.TypeLongVarChar)
	i.AddNativeTypeMapping(schema.TypeDate, "DATETIME", schema.TypeTimestamp)
	i.AddNativeTypeMapping(schema.TypeDatalink, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeDistinct, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeDouble, "FLOAT", schema.TypeFloat)
	i.AddNativeTypeMapping(schema.TypeJavaObject, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeLongVarBinary, "IMAGE")
	i.AddNativeTypeMapping(schema.TypeLongVarChar, "TEXT")
	i.AddNativeTypeMapping(schema.TypeNull, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeOther, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeRef, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeStruct, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeTime, "DATETIME", schema.TypeTimestamp)
	i.AddNativeTypeMapping(schema.TypeTimestamp, "DATETIME")
	i.AddNativeAlias("INT", schema.TypeInteger)
	i.AddNativeAlias("NVARCHAR", schema.TypeVarChar)
	i.AddNativeAlias("NCHAR", schema.TypeChar)
	i.AddNativeAlias("NTEXT", schema.TypeLongVarChar)
	i.AddNativeAlias("DATETIME2", schema.TypeTimestamp)
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar, schema.TypeBinary, schema.TypeVarBinary)
	return i
}

func newMySQL() *Info {
	i := New("mysql")
	i.MaxIdentifierLength = 64
	i.SystemIndexesReturned = true
	i.NullRequired = true
	i.QuoteStart, i.QuoteEnd = "`", "`"
	i.AddNativeTypeMapping(schema.TypeArray, "LONGBLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBit, "TINYINT(1)", schema.TypeTinyInt)
	i.AddNativeTypeMapping(schema.TypeBlob, "LONGBLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBoolean, "TINYINT(1)", schema.TypeTinyInt)
	i.AddNativeTypeMapping(schema.TypeClob, "LONGTEXT", schema.TypeLongVarChar)
	i.AddNativeTypeMapping(schema.TypeDatalink, "MEDIUMBLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeDistinct, "LONGBLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeFloat, "DOUBLE", schema.TypeDouble)
	i.AddNativeTypeMapping(schema.TypeJavaObject, "LONGBLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeLongVarBinary, "MEDIUMBLOB")
	i.AddNativeTypeMapping(schema.TypeLongVarChar, "MEDIUMTEXT")
	i.AddNativeTypeMapping(schema.TypeNull, "MEDIUMBLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeNumeric, "DECIMAL", schema.TypeDecimal)
	i.AddNativeTypeMapping(schema.TypeOther, "LONGBLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeReal, "FLOAT")
	i.AddNativeTypeMapping(schema.TypeRef, "MEDIUMBLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeStruct, "LONGBLOB", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeTimestamp, "DATETIME")
	i.AddNativeAlias("INT", schema.TypeInteger)
	i.AddNativeAlias("MEDIUMINT", schema.TypeInteger)
	i.AddNativeAlias("TEXT", schema.TypeLongVarChar)
	i.AddNativeAlias("TINYTEXT", schema.TypeLongVarChar)
	i.AddNativeAlias("BLOB", schema.TypeLongVarBinary)
	i.AddNativeAlias("TINYBLOB", schema.TypeLongVarBinary)
	i.AddNativeAlias("DATETIME", schema.TypeTimestamp)
	i.AddNativeAlias("TIMESTAMP", schema.TypeTimestamp)
	i.AddNativeAlias("JSON", schema.TypeLongVarChar)
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar, schema.TypeBinary, schema.TypeVarBinary)
	return i
}

func newOracle() *Info {
	i := New("oracle")
	i.MaxIdentifierLength = 30
	i.SystemIndexesReturned = true
	i.AddNativeTypeMapping(schema.TypeArray, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeBigInt, "NUMBER(38)")
	i.AddNativeTypeMapping(schema.TypeBinary, "RAW", schema.TypeVarBinary)
	i.AddNativeTypeMapping(schema.TypeBit, "NUMBER(1)")
	i.AddNativeTypeMapping(schema.TypeDate, "DATE", schema.TypeTimestamp)
	i.AddNativeTypeMapping(schema.TypeDecimal, "NUMBER")
	i.AddNativeTypeMapping(schema.TypeDistinct, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeDouble, "DOUBLE PRECISION")
	i.AddNativeTypeMapping(schema.TypeFloat, "FLOAT", schema.TypeDouble)
	i.AddNativeTypeMapping(schema.TypeInteger, "INTEGER")
	i.AddNativeTypeMapping(schema.TypeJavaObject, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeLongVarBinary, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeLongVarChar, "CLOB", schema.TypeClob)
	i.AddNativeTypeMapping(schema.TypeNull, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeNumeric, "NUMBER", schema.TypeDecimal)
	i.AddNativeTypeMapping(schema.TypeOther, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeReal, "REAL")
	i.AddNativeTypeMapping(schema.TypeRef, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeSmallInt, "NUMBER(5)")
	i.AddNativeTypeMapping(schema.TypeStruct, "BLOB", schema.TypeBlob)
	i.AddNativeTypeMapping(schema.TypeTime, "DATE", schema.TypeTimestamp)
	i.AddNativeTypeMapping(schema.TypeTimestamp, "DATE")
	i.AddNativeTypeMapping(schema.TypeTinyInt, "NUMBER(3)")
	i.AddNativeTypeMapping(schema.TypeVarBinary, "RAW")
	i.AddNativeTypeMapping(schema.TypeVarChar, "VARCHAR2")
	i.AddNativeTypeMappingByName("BOOLEAN", "NUMBER(1,0)", "BIT")
	i.AddNativeTypeMappingByName("DATALINK", "BLOB", "BLOB")
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar, schema.TypeBinary, schema.TypeVarBinary)
	return i
}

func newPostgreSQL() *Info {
	i := New("postgresql")
	i.MaxIdentifierLength = 63
	i.SystemIndexesReturned = true
	i.AddNativeTypeMapping(schema.TypeArray, "BYTEA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBinary, "BYTEA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBit, "BOOLEAN", schema.TypeBoolean)
	i.AddNativeTypeMapping(schema.TypeBlob, "BYTEA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeClob, "TEXT", schema.TypeLongVarChar)
	i.AddNativeTypeMapping(schema.TypeDatalink, "BYTEA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeDistinct, "BYTEA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeDouble, "DOUBLE PRECISION")
	i.AddNativeTypeMapping(schema.TypeFloat, "DOUBLE PRECISION", schema.TypeDouble)
	i.AddNativeTypeMapping(schema.TypeJavaObject, "BYTEA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeLongVarBinary, "BYTEA")
	i.AddNativeTypeMapping(schema.TypeLongVarChar, "TEXT")
	i.AddNativeTypeMapping(schema.TypeNull, "BYTEA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeOther, "BYTEA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeRef, "BYTEA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeStruct, "BYTEA", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeTinyInt, "SMALLINT", schema.TypeSmallInt)
	i.AddNativeTypeMapping(schema.TypeVarBinary, "BYTEA", schema.TypeLongVarBinary)
	i.AddNativeAlias("BOOLEAN", schema.TypeBoolean)
	i.AddNativeAlias("BOOL", schema.TypeBoolean)
	i.AddNativeAlias("INT2", schema.TypeSmallInt)
	i.AddNativeAlias("INT4", schema.TypeInteger)
	i.AddNativeAlias("INT8", schema.TypeBigInt)
	i.AddNativeAlias("SERIAL", schema.TypeInteger)
	i.AddNativeAlias("BIGSERIAL", schema.TypeBigInt)
	i.AddNativeAlias("FLOAT4", schema.TypeReal)
	i.AddNativeAlias("FLOAT8", schema.TypeDouble)
	i.AddNativeAlias("CHARACTER VARYING", schema.TypeVarChar)
	i.AddNativeAlias("CHARACTER", schema.TypeChar)
	i.AddNativeAlias("BPCHAR", schema.TypeChar)
	i.AddNativeAlias("TIMESTAMP WITHOUT TIME ZONE", schema.TypeTimestamp)
	i.AddNativeAlias("TIMESTAMP WITH TIME ZONE", schema.TypeTimestamp)
	i.AddNativeAlias("TIME WITHOUT TIME ZONE", schema.TypeTime)
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar)
	return i
}

func newSQLite() *Info {
	i := New("sqlite")
	i.ForeignKeysEmbedded = true
	i.SystemIndexesReturned = true
	i.AlterColumnSupported = false
	i.AddNativeTypeMapping(schema.TypeBit, "BOOLEAN", schema.TypeBoolean)
	i.AddNativeTypeMapping(schema.TypeClob, "TEXT", schema.TypeLongVarChar)
	i.AddNativeTypeMapping(schema.TypeLongVarChar, "TEXT")
	i.AddNativeTypeMapping(schema.TypeLongVarBinary, "BLOB", schema.TypeBlob)
	i.AddNativeAlias("INT", schema.TypeInteger)
	i.AddNativeAlias("DATETIME", schema.TypeTimestamp)
	i.AddNativeAlias("BLOB", schema.TypeBlob)
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar)
	return i
}

func newSybase() *Info {
	i := New("sybase")
	i.MaxIdentifierLength = 128
	i.SystemIndexesReturned = true
	i.NullRequired = true
	i.ColumnKeywordInAdd = false
	i.AddNativeTypeMapping(schema.TypeArray, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBigInt, "DECIMAL(19,0)")
	i.AddNativeTypeMapping(schema.TypeBlob, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeBoolean, "BIT", schema.TypeBit)
	i.AddNativeTypeMapping(schema.TypeClob, "TEXT", schema.TypeLongVarChar)
	i.AddNativeTypeMapping(schema.TypeDate, "DATETIME", schema.TypeTimestamp)
	i.AddNativeTypeMapping(schema.TypeDistinct, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeDouble, "DOUBLE PRECISION")
	i.AddNativeTypeMapping(schema.TypeFloat, "DOUBLE PRECISION", schema.TypeDouble)
	i.AddNativeTypeMapping(schema.TypeJavaObject, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeLongVarBinary, "IMAGE")
	i.AddNativeTypeMapping(schema.TypeLongVarChar, "TEXT")
	i.AddNativeTypeMapping(schema.TypeNull, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeOther, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeRef, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeStruct, "IMAGE", schema.TypeLongVarBinary)
	i.AddNativeTypeMapping(schema.TypeTime, "DATETIME", schema.TypeTimestamp)
	i.AddNativeTypeMapping(schema.TypeTimestamp, "DATETIME")
	i.AddNativeTypeMapping(schema.TypeTinyInt, "SMALLINT", schema.TypeSmallInt)
	withDefaultSizes(i, "254", schema.TypeChar, schema.TypeVarChar, schema.TypeBinary, schema.TypeVarBinary)
	return i
}
