package store

import "time"

// 文档注释：演示数据（三组织、三活动、三项目）
// 背景：DB_DISABLED=true 时由 Memory 直接使用；cmd/seed 写入 PostgreSQL 作为初始内容。
// 约束：活动日期相对 now 计算，保证演示环境中“即将到来”列表不为空。
func SeedData(now time.Time) ([]Group, []Activity, []Project) {
	groups := []Group{
		{
			ID:          "1",
			OwnerID:     "admin",
			Name:        "Chiang Mai Urban Green",
			Province:    "เชียงใหม่",
			Coordinates: Coordinates{Lat: 18.7883, Lng: 98.9853},
			Issues:      []string{"การพัฒนาเมือง", "ความยุติธรรมทางสภาพอากาศ"},
			Description: "รณรงค์เพื่อเพิ่มพื้นที่สีเขียวในตัวเมืองเชียงใหม่และการวางผังเมืองที่ยั่งยืน",
			Contact:     "contact@cmug.org",
			ImageURL:    "https://picsum.photos/800/600?random=1",
			CreatedAt:   now,
		},
		{
			ID:          "2",
			OwnerID:     "mock-user-123",
			Name:        "เครือข่ายสิทธิอีสาน",
			Province:    "ขอนแก่น",
			Coordinates: Coordinates{Lat: 16.4322, Lng: 102.8236},
			Issues:      []string{"สิทธิดิจิทัล", "ปฏิรูปการศึกษา"},
			Description: "เครือข่ายนักกิจกรรมเยาวชนที่ทำงานด้านสิทธิพลเมืองและความเสมอภาคทางการศึกษาในภาคตะวันออกเฉียงเหนือ",
			Contact:     "info@isanrights.org",
			ImageURL:    "https://picsum.photos/800/600?random=2",
			CreatedAt:   now.Add(-time.Minute),
		},
		{
			ID:          "3",
			OwnerID:     "user3",
			Name:        "Songkhla Heritage Youth",
			Province:    "สงขลา",
			Coordinates: Coordinates{Lat: 7.1988, Lng: 100.5951},
			Issues:      []string{"ศิลปะและวัฒนธรรม", "การพัฒนาเมือง"},
			Description: "กลุ่มเยาวชนที่สนใจในการอนุรักษ์ย่านเมืองเก่าสงขลาผ่านศิลปะร่วมสมัย",
			Contact:     "hello@songkhlayouth.com",
			ImageURL:    "https://picsum.photos/800/600?random=3",
			CreatedAt:   now.Add(-2 * time.Minute),
		},
	}
	day := 24 * time.Hour
	activities := []Activity{
		{
			ID:          "101",
			OwnerID:     "admin",
			GroupID:     "1",
			Title:       "เวิร์กช็อปสวนผักคนเมือง",
			Date:        now.Add(2 * day),
			Location:    "หอศิลปวัฒนธรรมเชียงใหม่",
			Status:      StatusClosingSoon,
			GroupName:   "Chiang Mai Urban Green",
			ImageURL:    "https://picsum.photos/400/300?random=4",
			Description: "เรียนรู้วิธีการปลูกผักในพื้นที่จำกัด การทำปุ๋ยหมัก และการจัดการขยะอินทรีย์ในครัวเรือน เพื่อสร้างความมั่นคงทางอาหารและเพิ่มพื้นที่สีเขียวให้กับเมืองเชียงใหม่",
			CreatedAt:   now,
		},
		{
			ID:          "102",
			OwnerID:     "mock-user-123",
			GroupID:     "2",
			Title:       "เวทีเยาวชนอีสาน 2024",
			Date:        now.Add(14 * day),
			Location:    "มหาวิทยาลัยขอนแก่น",
			Status:      StatusOpen,
			GroupName:   "เครือข่ายสิทธิอีสาน",
			ImageURL:    "https://picsum.photos/400/300?random=5",
			Description: "เวทีสาธารณะเพื่อเปิดพื้นที่ให้เยาวชนคนรุ่นใหม่ในภาคอีสานได้ร่วมแลกเปลี่ยนความคิดเห็นเกี่ยวกับทิศทางการพัฒนาภูมิภาค",
			CreatedAt:   now,
		},
		{
			ID:          "103",
			OwnerID:     "user3",
			GroupID:     "3",
			Title:       "เดินเมืองสงขลา: ย้อนรอยอดีต",
			Date:        now.Add(7 * day),
			Location:    "ถนนนางงาม สงขลา",
			Status:      StatusOpen,
			GroupName:   "Songkhla Heritage Youth",
			ImageURL:    "https://picsum.photos/400/300?random=6",
			Description: "กิจกรรมเดินเท้าสำรวจย่านเมืองเก่าสงขลา เรียนรู้ประวัติศาสตร์ สถาปัตยกรรม และวิถีชีวิตของผู้คนในย่านถนนนางงาม",
			CreatedAt:   now,
		},
	}
	projects := []Project{
		{
			ID:            "1",
			OwnerID:       "admin",
			GroupID:       "1",
			ActivityIDs:   []string{"101"},
			Title:         "โครงการอากาศสะอาดเชียงใหม่",
			Location:      "เชียงใหม่",
			Date:          "มกราคม 2024",
			Category:      "สิ่งแวดล้อม",
			ProjectStatus: ProjectOngoing,
			Description:   "การรวมตัวของเยาวชนในจังหวัดเชียงใหม่เพื่อพัฒนาระบบตรวจวัดฝุ่น PM2.5 ราคาประหยัด และการรณรงค์ลดการเผาในพื้นที่เกษตรกรรม",
			Image:         "https://picsum.photos/800/600?random=10",
			Stats:         ProjectStats{Volunteers: 150, Beneficiaries: "5,000+"},
			CreatedAt:     now,
		},
		{
			ID:            "2",
			OwnerID:       "user3",
			GroupID:       "3",
			ActivityIDs:   []string{"103"},
			Title:         "ฟื้นฟูเมืองเก่าสงขลา",
			Location:      "สงขลา",
			Date:          "มีนาคม 2024",
			Category:      "วัฒนธรรม",
			ProjectStatus: ProjectOngoing,
			Description:   "โครงการอนุรักษ์สถาปัตยกรรมชิโน-ยูโรเปียนและการสร้างพื้นที่สร้างสรรค์สำหรับศิลปินรุ่นใหม่",
			Image:         "https://picsum.photos/800/600?random=11",
			Stats:         ProjectStats{Volunteers: 80, Beneficiaries: "2,000+"},
			CreatedAt:     now.Add(-time.Minute),
		},
		{
			ID:            "3",
			OwnerID:       "mock-user-123",
			GroupID:       "2",
			Title:         "โรงเรียนพลเมืองขอนแก่น",
			Location:      "ขอนแก่น",
			Date:          "กุมภาพันธ์ 2024",
			Category:      "การศึกษา",
			ProjectStatus: ProjectCompleted,
			Description:   "หลักสูตรนอกห้องเรียนที่เปิดโอกาสให้เยาวชนได้เรียนรู้เรื่องสิทธิพลเมือง การกระจายอำนาจ และการตรวจสอบการทำงานของภาครัฐในระดับท้องถิ่น",
			Image:         "https://picsum.photos/800/600?random=12",
			Stats:         ProjectStats{Volunteers: 45, Beneficiaries: "300+"},
			CreatedAt:     now.Add(-2 * time.Minute),
		},
	}
	return groups, activities, projects
}
