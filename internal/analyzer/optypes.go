package analyzer

import (
	"fmt"

	"github.com/jacobarthurs/dprof/internal/document"
)

// operatorTypeNames maps the profile's numeric operator type codes to the
// engine's operator names. Codes missing here render as UNKNOWN_OPERATOR so
// newer engine versions degrade readably instead of silently.
var operatorTypeNames = map[int64]string{
	0:  "SINGLE_SENDER",
	1:  "BROADCAST_SENDER",
	2:  "FILTER",
	3:  "HASH_AGGREGATE",
	4:  "HASH_JOIN",
	5:  "MERGE_JOIN",
	6:  "HASH_PARTITION_SENDER",
	7:  "LIMIT",
	8:  "MERGING_RECEIVER",
	9:  "ORDERED_PARTITION_SENDER",
	10: "PROJECT",
	11: "UNORDERED_RECEIVER",
	12: "RANGE_SENDER",
	13: "SCREEN",
	14: "SELECTION_VECTOR_REMOVER",
	15: "STREAMING_AGGREGATE",
	16: "TOP_N_SORT",
	17: "EXTERNAL_SORT",
	18: "TRACE",
	19: "UNION",
	20: "OLD_SORT",
	21: "PARQUET_ROW_GROUP_SCAN",
	22: "HIVE_SUB_SCAN",
	23: "SYSTEM_TABLE_SCAN",
	24: "MOCK_SUB_SCAN",
	25: "PARQUET_WRITER",
	26: "DIRECT_SUB_SCAN",
	27: "TEXT_SUB_SCAN",
	28: "JSON_SUB_SCAN",
	29: "INFO_SCHEMA_SUB_SCAN",
	30: "COMPLEX_TO_JSON",
	31: "PRODUCER_CONSUMER",
	32: "HBASE_SUB_SCAN",
	33: "WINDOW",
	34: "NESTED_LOOP_JOIN",
	35: "AVRO_SUB_SCAN",
	36: "MONGO_SUB_SCAN",
	37: "ELASTICSEARCH_SUB_SCAN",
	38: "ELASTICSEARCH_AGGREGATOR_SUB_SCAN",
	39: "FLATTEN",
	40: "EXCEL_SUB_SCAN",
	41: "ARROW_SUB_SCAN",
	42: "ARROW_WRITER",
	43: "JSON_WRITER",
	44: "TEXT_WRITER",
	45: "JDBC_SUB_SCAN",
	46: "DICTIONARY_LOOKUP",
	47: "WRITER_COMMITTER",
	48: "ROUND_ROBIN_SENDER",
	49: "BOOST_PARQUET",
	50: "ICEBERG_SUB_SCAN",
	51: "TABLE_FUNCTION",
	52: "DELTALAKE_SUB_SCAN",
	53: "DIR_LISTING_SUB_SCAN",
	54: "ICEBERG_WRITER_COMMITTER",
	55: "GRPC_WRITER",
	56: "MANIFEST_WRITER",
	57: "FLIGHT_SUB_SCAN",
	58: "BRIDGE_FILE_WRITER_SENDER",
	59: "BRIDGE_FILE_READER_RECEIVER",
	60: "BRIDGE_FILE_READER",
	61: "ICEBERG_MANIFEST_WRITER",
	62: "ICEBERG_METADATA_FUNCTIONS_READER",
	63: "ICEBERG_SNAPSHOTS_SUB_SCAN",
	64: "NESSIE_COMMITS_SUB_SCAN",
	65: "SMALL_FILE_COMBINATION_WRITER",
}

// OperatorTypeName resolves a numeric operator type code to its name.
func OperatorTypeName(code int64) string {
	if name, ok := operatorTypeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_OPERATOR (%d)", code)
}

var queryStateNames = map[int64]string{
	0: "STARTING",
	1: "RUNNING",
	2: "COMPLETED",
	3: "CANCELED",
	4: "FAILED",
	5: "CANCELLATION_REQUESTED",
	6: "ENQUEUED",
}

// QueryStateName renders the profile's query state, which newer engines emit
// as a string and older ones as a numeric enum.
func QueryStateName(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	code := document.Int(v, -1)
	if name, ok := queryStateNames[code]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN_STATE (%d)", code)
}
