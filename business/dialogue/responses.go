package dialogue

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charcochicken/goVoiceOrder/business/menu"
	"github.com/charcochicken/goVoiceOrder/business/orders"
)

// Reply templates in Syrian Arabic, matching the register of the
// restaurant's phone agent.
const (
	respWelcome  = "أهلاً وسهلاً بك في مطعم شاركو تشيكن. كيف ممكن ساعدك اليوم؟"
	respChatter  = "أهلين فيك! شو بتحب تطلب اليوم؟"
	respClarify  = "عذراً، ما فهمت عليك منيح. ممكن تعيد؟"
	respHandoff  = "عذراً عالإزعاج، رح حولك لأحد موظفينا ليساعدك. لحظة من فضلك."
	respAskItems = "شو بتحب تطلب من عنا اليوم؟"
	respAskName  = "تمام! ممكن اسمك الكريم لتسجيل الطلب؟"
	respCorrect  = "ولا يهمك، شو بتحب تغير بالطلب؟"
	respGoodbye  = "شكراً لاتصالك بمطعم شاركو تشيكن. مع السلامة!"
	respAskID    = "ممكن تعطيني رقم الطلب لو سمحت حتى ساعدك؟"
	respInternal = "عذراً، صار خطأ عنا. لحظة من فضلك، منعيد المحاولة."
	respGeneral  = "نحن مطعم شاركو تشيكن، مختصين بالأكل السوري. بتقدر تسألني عن المنيو أو الأسعار."
)

func respAskQuantities(pending []string) string {
	return fmt.Sprintf("كم بدك من كل صنف: %s؟", strings.Join(pending, "، "))
}

func respUnknownItems(unresolved []string) string {
	return fmt.Sprintf("عذراً، ما عنا %s بالمنيو. في شي تاني بتحب تطلبه؟", strings.Join(unresolved, "، "))
}

func respIDNotFound(orderID string) string {
	return fmt.Sprintf("عذراً، ما لقيت طلب بالرقم %s. ممكن تتأكد من الرقم؟", orderID)
}

func respCompensation(item string) string {
	if item == "" {
		return "منعتذر منك كتير عالغلط. خبرني شو صار وشو بتحب نعملّك؟"
	}
	return fmt.Sprintf("منعتذر منك كتير عالغلط. رح ضيفلك %s مجاناً مع طلبك الجديد. شو بتحب تطلب؟", item)
}

func respConfirm(draft *Draft, total menu.Price) string {
	return fmt.Sprintf("إذاً طلبك: %s. المجموع %s دولار، باسم %s. هل أأكد الطلب؟",
		lineSummary(draft), total.Dollars(), draft.CustomerName())
}

func respConfirmed(order *orders.Order) string {
	return fmt.Sprintf("تمام! تم تأكيد طلبك رقم %s. المجموع %s دولار، ورح يكون جاهز خلال %d دقيقة تقريباً. شكراً %s!",
		order.OrderID, order.TotalPrice.Dollars(), order.ETAMinutes, order.CustomerName)
}

func respItemInfo(item menu.Item) string {
	return fmt.Sprintf("%s: %s. سعره %s دولار.", item.Name, item.Description, item.Price.Dollars())
}

func respMenu(catalog *menu.Catalog) string {
	var parts []string
	for _, category := range catalog.Categories() {
		for _, item := range category.Items {
			if !item.Available {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s بـ%s", item.Name, item.Price.Dollars()))
		}
	}
	return fmt.Sprintf("عنا اليوم: %s. شو بتحب تطلب؟", strings.Join(parts, "، "))
}

// lineSummary renders the draft lines in deterministic (sorted) order.
func lineSummary(draft *Draft) string {
	items := draft.LineItems()
	names := make([]string, 0, len(items))
	for name := range items {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%d %s", items[name], name))
	}
	return strings.Join(parts, " و ")
}
