package frontend

// javaLang holds the java.lang types visible without an import.
var javaLang = map[string]struct{}{
	// core classes
	"String":            {},
	"Object":            {},
	"System":            {},
	"Integer":           {},
	"Long":              {},
	"Double":            {},
	"Float":             {},
	"Boolean":           {},
	"Byte":              {},
	"Character":         {},
	"Short":             {},
	"Void":              {},
	"Number":            {},
	"Math":              {},
	"StrictMath":        {},
	"Class":             {},
	"ClassLoader":       {},
	"Thread":            {},
	"ThreadGroup":       {},
	"ThreadLocal":       {},
	"StringBuilder":     {},
	"StringBuffer":      {},
	"Enum":              {},
	"Record":            {},
	"Runtime":           {},
	"Process":           {},
	"ProcessBuilder":    {},
	"StackTraceElement": {},

	// interfaces
	"Iterable":      {},
	"AutoCloseable": {},
	"Runnable":      {},
	"Comparable":    {},
	"CharSequence":  {},
	"Cloneable":     {},
	"Appendable":    {},
	"Readable":      {},

	// annotations
	"Override":            {},
	"Deprecated":          {},
	"SuppressWarnings":    {},
	"SafeVarargs":         {},
	"FunctionalInterface": {},

	// throwables
	"Throwable":                       {},
	"Exception":                       {},
	"RuntimeException":                {},
	"Error":                           {},
	"NullPointerException":            {},
	"IllegalArgumentException":        {},
	"IllegalStateException":           {},
	"IndexOutOfBoundsException":       {},
	"ArrayIndexOutOfBoundsException":  {},
	"StringIndexOutOfBoundsException": {},
	"UnsupportedOperationException":   {},
	"ClassCastException":              {},
	"ClassNotFoundException":          {},
	"CloneNotSupportedException":      {},
	"InterruptedException":            {},
	"NumberFormatException":           {},
	"ArithmeticException":             {},
	"SecurityException":               {},
	"ReflectiveOperationException":    {},
	"NoSuchMethodException":           {},
	"NoSuchFieldException":            {},
	"InstantiationException":          {},
	"IllegalAccessException":          {},
	"AssertionError":                  {},
	"OutOfMemoryError":                {},
	"StackOverflowError":              {},
	"LinkageError":                    {},
	"ExceptionInInitializerError":     {},
	"NoClassDefFoundError":            {},
}

// knownPackages lists the common JDK types an on-demand import such as
// "import java.util.*;" can bring into scope.
var knownPackages = map[string]map[string]struct{}{
	"java.util": set(
		"List", "ArrayList", "LinkedList", "Map", "HashMap", "LinkedHashMap",
		"TreeMap", "SortedMap", "NavigableMap", "Set", "HashSet", "LinkedHashSet",
		"TreeSet", "SortedSet", "NavigableSet", "Collection", "Collections",
		"Queue", "Deque", "ArrayDeque", "PriorityQueue", "Iterator", "Optional",
		"OptionalInt", "OptionalLong", "OptionalDouble", "Arrays", "Objects",
		"UUID", "Date", "Calendar", "Locale", "Properties", "Random", "Scanner",
		"Comparator", "EnumMap", "EnumSet", "BitSet", "StringJoiner",
		"Stack", "Vector", "Hashtable", "Currency",
	),
	"java.util.function": set(
		"Function", "BiFunction", "Supplier", "Consumer", "BiConsumer",
		"Predicate", "BiPredicate", "UnaryOperator", "BinaryOperator",
		"IntFunction", "ToIntFunction", "ToLongFunction", "ToDoubleFunction",
	),
	"java.util.concurrent": set(
		"ConcurrentMap", "ConcurrentHashMap", "CompletableFuture", "Future",
		"Callable", "Executor", "ExecutorService", "Executors", "TimeUnit",
		"CountDownLatch", "BlockingQueue", "LinkedBlockingQueue",
		"CopyOnWriteArrayList", "ScheduledExecutorService",
	),
	"java.util.stream": set("Stream", "IntStream", "LongStream", "Collectors"),
	"java.io": set(
		"File", "InputStream", "OutputStream", "Reader", "Writer",
		"BufferedReader", "BufferedWriter", "InputStreamReader",
		"OutputStreamWriter", "FileInputStream", "FileOutputStream",
		"FileReader", "FileWriter", "PrintStream", "PrintWriter",
		"ByteArrayInputStream", "ByteArrayOutputStream", "Serializable",
		"Closeable", "IOException", "FileNotFoundException",
		"UncheckedIOException",
	),
	"java.nio.file": set("Path", "Paths", "Files"),
	"java.time": set(
		"Instant", "Duration", "LocalDate", "LocalDateTime", "LocalTime",
		"ZonedDateTime", "OffsetDateTime", "ZoneId", "Period", "Clock",
	),
	"java.math": set("BigDecimal", "BigInteger", "RoundingMode"),
}

func set(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

var primitives = map[string]struct{}{
	"boolean": {},
	"byte":    {},
	"char":    {},
	"short":   {},
	"int":     {},
	"long":    {},
	"float":   {},
	"double":  {},
	"void":    {},
}

type builtinMethod struct {
	name      string
	signature string
}

// Members of java.lang.Object every class inherits.
var objectMethods = []builtinMethod{
	{"getClass", "getClass()"},
	{"hashCode", "hashCode()"},
	{"equals", "equals(java.lang.Object)"},
	{"clone", "clone()"},
	{"toString", "toString()"},
	{"notify", "notify()"},
	{"notifyAll", "notifyAll()"},
	{"wait", "wait()"},
	{"wait", "wait(long)"},
	{"wait", "wait(long,int)"},
	{"finalize", "finalize()"},
}

// Members of java.lang.annotation.Annotation every annotation type inherits.
var annotationMethods = []builtinMethod{
	{"annotationType", "annotationType()"},
	{"equals", "equals(java.lang.Object)"},
	{"hashCode", "hashCode()"},
	{"toString", "toString()"},
}
