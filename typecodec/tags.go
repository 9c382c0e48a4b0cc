package typecodec

import (
	"fmt"

	"github.com/cube2222/typewire/datatype"
)

// Tag is the first byte of every encoded type.
type Tag byte

const (
	TagNothing                 Tag = 0x00
	TagUInt8                   Tag = 0x01
	TagUInt16                  Tag = 0x02
	TagUInt32                  Tag = 0x03
	TagUInt64                  Tag = 0x04
	TagUInt128                 Tag = 0x05
	TagUInt256                 Tag = 0x06
	TagInt8                    Tag = 0x07
	TagInt16                   Tag = 0x08
	TagInt32                   Tag = 0x09
	TagInt64                   Tag = 0x0A
	TagInt128                  Tag = 0x0B
	TagInt256                  Tag = 0x0C
	TagFloat32                 Tag = 0x0D
	TagFloat64                 Tag = 0x0E
	TagDate                    Tag = 0x0F
	TagDate32                  Tag = 0x10
	TagDateTime                Tag = 0x11
	TagDateTimeWithTimeZone    Tag = 0x12
	TagDateTime64              Tag = 0x13
	TagDateTime64WithTimeZone  Tag = 0x14
	TagString                  Tag = 0x15
	TagFixedString             Tag = 0x16
	TagEnum8                   Tag = 0x17
	TagEnum16                  Tag = 0x18
	TagDecimal32               Tag = 0x19
	TagDecimal64               Tag = 0x1A
	TagDecimal128              Tag = 0x1B
	TagDecimal256              Tag = 0x1C
	TagUUID                    Tag = 0x1D
	TagArray                   Tag = 0x1E
	TagTuple                   Tag = 0x1F
	TagNamedTuple              Tag = 0x20
	TagSet                     Tag = 0x21
	TagInterval                Tag = 0x22
	TagNullable                Tag = 0x23
	TagFunction                Tag = 0x24
	TagAggregateFunction       Tag = 0x25
	TagLowCardinality          Tag = 0x26
	TagMap                     Tag = 0x27
	TagIPv4                    Tag = 0x28
	TagIPv6                    Tag = 0x29
	TagVariant                 Tag = 0x2A
	TagDynamic                 Tag = 0x2B
	TagCustom                  Tag = 0x2C
	TagBool                    Tag = 0x2D
	TagSimpleAggregateFunction Tag = 0x2E
	TagNested                  Tag = 0x2F
)

var tagByTypeID = [datatype.NumTypeIDs]Tag{
	datatype.TypeIDNothing:                 TagNothing,
	datatype.TypeIDUInt8:                   TagUInt8,
	datatype.TypeIDUInt16:                  TagUInt16,
	datatype.TypeIDUInt32:                  TagUInt32,
	datatype.TypeIDUInt64:                  TagUInt64,
	datatype.TypeIDUInt128:                 TagUInt128,
	datatype.TypeIDUInt256:                 TagUInt256,
	datatype.TypeIDInt8:                    TagInt8,
	datatype.TypeIDInt16:                   TagInt16,
	datatype.TypeIDInt32:                   TagInt32,
	datatype.TypeIDInt64:                   TagInt64,
	datatype.TypeIDInt128:                  TagInt128,
	datatype.TypeIDInt256:                  TagInt256,
	datatype.TypeIDFloat32:                 TagFloat32,
	datatype.TypeIDFloat64:                 TagFloat64,
	datatype.TypeIDDate:                    TagDate,
	datatype.TypeIDDate32:                  TagDate32,
	datatype.TypeIDDateTime:                TagDateTime,
	datatype.TypeIDDateTimeWithTimeZone:    TagDateTimeWithTimeZone,
	datatype.TypeIDDateTime64:              TagDateTime64,
	datatype.TypeIDDateTime64WithTimeZone:  TagDateTime64WithTimeZone,
	datatype.TypeIDString:                  TagString,
	datatype.TypeIDFixedString:             TagFixedString,
	datatype.TypeIDEnum8:                   TagEnum8,
	datatype.TypeIDEnum16:                  TagEnum16,
	datatype.TypeIDDecimal32:               TagDecimal32,
	datatype.TypeIDDecimal64:               TagDecimal64,
	datatype.TypeIDDecimal128:              TagDecimal128,
	datatype.TypeIDDecimal256:              TagDecimal256,
	datatype.TypeIDUUID:                    TagUUID,
	datatype.TypeIDArray:                   TagArray,
	datatype.TypeIDTuple:                   TagTuple,
	datatype.TypeIDNamedTuple:              TagNamedTuple,
	datatype.TypeIDSet:                     TagSet,
	datatype.TypeIDInterval:                TagInterval,
	datatype.TypeIDNullable:                TagNullable,
	datatype.TypeIDFunction:                TagFunction,
	datatype.TypeIDAggregateFunction:       TagAggregateFunction,
	datatype.TypeIDLowCardinality:          TagLowCardinality,
	datatype.TypeIDMap:                     TagMap,
	datatype.TypeIDIPv4:                    TagIPv4,
	datatype.TypeIDIPv6:                    TagIPv6,
	datatype.TypeIDVariant:                 TagVariant,
	datatype.TypeIDDynamic:                 TagDynamic,
	datatype.TypeIDCustom:                  TagCustom,
	datatype.TypeIDBool:                    TagBool,
	datatype.TypeIDSimpleAggregateFunction: TagSimpleAggregateFunction,
	datatype.TypeIDNested:                  TagNested,
}

// Interval kinds are not sequential: Year is 0x1A.
var intervalCodeByKind = [datatype.NumIntervalKinds]byte{
	datatype.IntervalNanosecond:  0x00,
	datatype.IntervalMicrosecond: 0x01,
	datatype.IntervalMillisecond: 0x02,
	datatype.IntervalSecond:      0x03,
	datatype.IntervalMinute:      0x04,
	datatype.IntervalHour:        0x05,
	datatype.IntervalDay:         0x06,
	datatype.IntervalWeek:        0x07,
	datatype.IntervalMonth:       0x08,
	datatype.IntervalQuarter:     0x09,
	datatype.IntervalYear:        0x1A,
}

type typeIDEntry struct {
	id    datatype.TypeID
	valid bool
}

type intervalEntry struct {
	kind  datatype.IntervalKind
	valid bool
}

var (
	typeIDByTag       [256]typeIDEntry
	intervalKindByTag [256]intervalEntry
)

// Both tables must be bijections; a forgotten entry defaults to zero and
// collides with the first one.
func init() {
	for id, tag := range tagByTypeID {
		if typeIDByTag[tag].valid {
			panic(fmt.Sprintf("typecodec: tag 0x%02X assigned to both %s and %s", byte(tag), typeIDByTag[tag].id, datatype.TypeID(id)))
		}
		typeIDByTag[tag] = typeIDEntry{id: datatype.TypeID(id), valid: true}
	}
	for kind, code := range intervalCodeByKind {
		if intervalKindByTag[code].valid {
			panic(fmt.Sprintf("typecodec: interval code 0x%02X assigned twice", code))
		}
		intervalKindByTag[code] = intervalEntry{kind: datatype.IntervalKind(kind), valid: true}
	}
}

// TagOf returns the wire tag of a type id.
func TagOf(id datatype.TypeID) (Tag, bool) {
	if id < 0 || int(id) >= len(tagByTypeID) {
		return 0, false
	}
	return tagByTypeID[id], true
}

// TypeIDOf returns the type id a tag stands for.
func TypeIDOf(tag Tag) (datatype.TypeID, bool) {
	entry := typeIDByTag[tag]
	return entry.id, entry.valid
}

func IntervalCodeOf(kind datatype.IntervalKind) (byte, bool) {
	if !kind.Valid() {
		return 0, false
	}
	return intervalCodeByKind[kind], true
}

func IntervalKindOf(code byte) (datatype.IntervalKind, bool) {
	entry := intervalKindByTag[code]
	return entry.kind, entry.valid
}
