package seed

import "github.com/akerr/feedseed/internal/feedcloud"

// Fixed profile documents for the named demo actors.
var (
	batmanProfile = feedcloud.UserData{
		"name":         "Batman",
		"url":          "batsignal.com",
		"desc":         "Smart, violent and brutally tough solutions to crime.",
		"profileImage": "https://i.kinja-img.com/gawker-media/image/upload/s--PUQWGzrn--/c_scale,f_auto,fl_progressive,q_80,w_800/yktaqmkm7ninzswgkirs.jpg",
		"coverImage":   "https://i0.wp.com/photos.smugmug.com/Portfolio/Full/i-mwrhZK2/0/ea7f1268/X2/GothamCity-X2.jpg?resize=1280%2C743&ssl=1",
	}

	fluffProfile = feedcloud.UserData{
		"name":         "Fluff",
		"url":          "fluff.com",
		"desc":         "Sweet I think",
		"profileImage": "https://mylittleamerica.com/988-large_default/durkee-marshmallow-fluff-strawberry.jpg",
		"coverImage":   "",
	}

	leagueProfile = feedcloud.UserData{
		"name":         "Justice League",
		"profileImage": "http://www.comingsoon.net/assets/uploads/2018/01/justice_league_2017___diana_hq___v2_by_duck_of_satan-db3kq6k.jpg",
	}

	bowieProfile = feedcloud.UserData{
		"name":         "David Bowie",
		"profileImage": "http://www.officialcharts.com/media/649820/david-bowie-1100.jpg?",
	}
)
