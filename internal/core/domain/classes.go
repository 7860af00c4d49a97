package domain

// ClassNames is the COCO label set the detection model is trained on, in
// class-id order.
var ClassNames = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train",
	"truck", "boat", "traffic light", "fire hydrant", "stop sign",
	"parking meter", "bench", "bird", "cat", "dog", "horse", "sheep", "cow",
	"elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag",
	"tie", "suitcase", "frisbee", "skis", "snowboard", "sports ball", "kite",
	"baseball bat", "baseball glove", "skateboard", "surfboard",
	"tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon",
	"bowl", "banana", "apple", "sandwich", "orange", "broccoli", "carrot",
	"hot dog", "pizza", "donut", "cake", "chair", "couch", "potted plant",
	"bed", "dining table", "toilet", "tv", "laptop", "mouse", "remote",
	"keyboard", "cell phone", "microwave", "oven", "toaster", "sink",
	"refrigerator", "book", "clock", "vase", "scissors", "teddy bear",
	"hair drier", "toothbrush",
}

var classIndex = func() map[string]int {
	m := make(map[string]int, len(ClassNames))
	for i, name := range ClassNames {
		m[name] = i
	}
	return m
}()

// KnownClass reports whether name is a valid detection class.
func KnownClass(name string) bool {
	_, ok := classIndex[name]
	return ok
}

// ClassName resolves a model class id to its label. Ids outside the label
// set map to "unknown".
func ClassName(id int) string {
	if id < 0 || id >= len(ClassNames) {
		return "unknown"
	}
	return ClassNames[id]
}
